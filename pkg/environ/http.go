package environ

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/shapestone/shape-httpmsg/pkg/httpmsg"
)

// DefaultMaxMemory is the multipart memory limit used by FromHTTP.
const DefaultMaxMemory = 32 << 20

// FromHTTP builds an Environment from a net/http request.
//
// Multipart form uploads are parsed up front: their metadata lands in Files
// and, as a CGI runtime does, Input is left empty. Any other body is handed
// over unread.
func FromHTTP(r *http.Request) (*httpmsg.Environment, error) {
	tls := r.TLS != nil
	server := map[string]string{
		"REQUEST_METHOD":  r.Method,
		"REQUEST_URI":     r.URL.RequestURI(),
		"QUERY_STRING":    r.URL.RawQuery,
		"SERVER_PROTOCOL": r.Proto,
		"REMOTE_ADDR":     r.RemoteAddr,
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	setHost(server, host, tls)
	setScheme(server, tls)

	raw := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		for _, v := range values {
			addHeader(server, name, v)
		}
		if len(values) > 0 {
			raw[name] = values[0]
		}
	}
	if _, ok := server["CONTENT_LENGTH"]; !ok && r.ContentLength > 0 {
		server["CONTENT_LENGTH"] = contentLength(r.ContentLength)
	}

	env := &httpmsg.Environment{
		Server:      server,
		Cookies:     map[string]string{},
		Query:       firstValues(r.URL.Query()),
		Files:       map[string][]httpmsg.UploadedFile{},
		Input:       r.Body,
		HeadersFunc: headerFunc(raw),
	}
	for _, c := range r.Cookies() {
		if _, ok := env.Cookies[c.Name]; !ok {
			env.Cookies[c.Name] = c.Value
		}
	}

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return nil, err
		}
		for field, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				env.Files[field] = append(env.Files[field], httpmsg.UploadedFile{
					Name: fh.Filename,
					Type: fh.Header.Get("Content-Type"),
					Size: fh.Size,
				})
			}
		}
		env.Input = nil
	}
	return env, nil
}

// WriteHTTP writes resp to w: headers, status code, then the body.
func WriteHTTP(w http.ResponseWriter, resp *httpmsg.Response) error {
	if resp == nil {
		return errors.New("environ: WriteHTTP(nil)")
	}
	h := w.Header()
	for _, hdr := range resp.Headers() {
		for _, v := range hdr.Values {
			h.Add(hdr.Key, v)
		}
	}
	content, err := bodyContents(resp)
	if err != nil {
		return err
	}
	if h.Get("Content-Length") == "" && h.Get("Transfer-Encoding") == "" && content != "" {
		h.Set("Content-Length", strconv.Itoa(len(content)))
	}
	w.WriteHeader(resp.StatusCode())
	_, err = io.WriteString(w, content)
	return err
}

func bodyContents(resp *httpmsg.Response) (string, error) {
	body := resp.Body()
	if body == nil {
		return "", nil
	}
	return body.Contents()
}
