package environ

import (
	"bytes"
	"strings"

	"github.com/shapestone/shape-httpmsg/internal/fastparser"
	"github.com/shapestone/shape-httpmsg/pkg/httpmsg"
)

// FromWire builds an Environment from a raw HTTP/1.x request. The scheme is
// always http. Chunked bodies are rejected.
func FromWire(data []byte) (*httpmsg.Environment, error) {
	req, err := fastparser.UnmarshalRequest(data)
	if err != nil {
		return nil, err
	}
	server := map[string]string{
		"REQUEST_METHOD":  req.Method,
		"REQUEST_URI":     req.Target,
		"QUERY_STRING":    req.Query,
		"SERVER_PROTOCOL": req.Version,
	}
	raw := make(map[string]string, len(req.Headers))
	for _, h := range req.Headers {
		addHeader(server, h.Key, h.Value)
		if _, ok := raw[h.Key]; !ok {
			raw[h.Key] = h.Value
		}
	}
	setHost(server, req.Get("Host"), false)
	setScheme(server, false)

	return &httpmsg.Environment{
		Server:      server,
		Cookies:     parseCookies(strings.Join(req.Values("Cookie"), "; ")),
		Query:       parseQuery(req.Query),
		Files:       map[string][]httpmsg.UploadedFile{},
		Input:       bytes.NewReader(req.Body),
		HeadersFunc: headerFunc(raw),
	}, nil
}
