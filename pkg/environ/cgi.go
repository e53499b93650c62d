package environ

import (
	"io"
	"strings"

	"github.com/shapestone/shape-httpmsg/pkg/httpmsg"
)

// FromCGI builds an Environment from a CGI process environment, given as
// "KEY=value" entries like os.Environ returns, and the request body.
// Cookies are decoded from HTTP_COOKIE and query parameters from
// QUERY_STRING.
func FromCGI(environ []string, input io.Reader) *httpmsg.Environment {
	server := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		server[k] = v
	}
	return &httpmsg.Environment{
		Server:  server,
		Cookies: parseCookies(server["HTTP_COOKIE"]),
		Query:   parseQuery(server["QUERY_STRING"]),
		Files:   map[string][]httpmsg.UploadedFile{},
		Input:   input,
	}
}
