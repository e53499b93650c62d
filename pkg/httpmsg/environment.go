package httpmsg

import (
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// UploadedFile describes one uploaded file as reported by the server.
type UploadedFile struct {
	Name    string // client-side file name
	Type    string // client-reported media type
	TmpName string // server-side location of the stored upload
	Error   int    // upload error code, 0 on success
	Size    int64
}

// Environment is the raw request data a server runtime hands over: CGI-style
// server variables, decoded cookies and query parameters, upload metadata
// and the unread request body.
type Environment struct {
	Server  map[string]string
	Cookies map[string]string
	Query   map[string]string
	Files   map[string][]UploadedFile
	Input   io.Reader

	// HeadersFunc returns the raw request headers when the runtime can
	// provide them. It is consulted only to recover Authorization when
	// HTTP_AUTHORIZATION is missing from Server.
	HeadersFunc func() map[string]string
}

// ServerHeaders builds request headers from CGI-style server variables.
//
// HTTP_* keys become Header-Case names ("HTTP_X_FORWARDED_FOR" becomes
// "X-Forwarded-For") and CONTENT_* keys become "Content-*" with MD5 kept
// upper-case. Values are split on commas and trimmed. HTTP_COOKIE* keys and
// empty values are skipped. When HTTP_AUTHORIZATION is absent, headersFunc
// (if non-nil) is asked for an "Authorization" or "authorization" entry.
func ServerHeaders(server map[string]string, headersFunc func() map[string]string) Headers {
	if _, ok := server["HTTP_AUTHORIZATION"]; !ok && headersFunc != nil {
		raw := headersFunc()
		auth, found := raw["Authorization"]
		if !found {
			auth, found = raw["authorization"]
		}
		if found {
			copied := make(map[string]string, len(server)+1)
			for k, v := range server {
				copied[k] = v
			}
			copied["HTTP_AUTHORIZATION"] = auth
			server = copied
		}
	}

	keys := make([]string, 0, len(server))
	for k := range server {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var headers Headers
	for _, key := range keys {
		value := server[key]
		if strings.HasPrefix(key, "HTTP_COOKIE") || value == "" {
			continue
		}
		var name string
		switch {
		case strings.HasPrefix(key, "HTTP_"):
			name = headerCase(key[len("HTTP_"):])
		case strings.HasPrefix(key, "CONTENT_"):
			suffix := key[len("CONTENT_"):]
			if suffix != "MD5" {
				suffix = upperFirst(strings.ToLower(suffix))
			}
			name = "Content-" + suffix
		default:
			continue
		}
		headers.Set(name, splitTrim(value)...)
	}
	return headers
}

// headerCase converts "X_FORWARDED_FOR" to "X-Forwarded-For".
func headerCase(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, "-")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

func splitTrim(value string) []string {
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// serverProtocol maps SERVER_PROTOCOL to a protocol version. It returns ""
// when the value is absent or unsupported.
func serverProtocol(server map[string]string) string {
	v := strings.TrimPrefix(server["SERVER_PROTOCOL"], "HTTP/")
	if v == "2" {
		v = Version20
	}
	if IsProtocolVersion(v) {
		return v
	}
	return ""
}

// DetectUri derives the request URI from CGI-style server variables.
//
// The scheme comes from REQUEST_SCHEME (HTTPS=on implies https, default
// http), the host from SERVER_NAME converted to its ASCII form, the port
// from SERVER_PORT (default 80) and the query from QUERY_STRING. The path is
// the path part of REQUEST_URI, or the detected base URL without one.
func DetectUri(server map[string]string) (*Uri, error) {
	scheme := server["REQUEST_SCHEME"]
	if scheme == "" {
		scheme = "http"
		if https := strings.ToLower(server["HTTPS"]); https == "on" || https == "1" {
			scheme = "https"
		}
	}

	host := server["SERVER_NAME"]
	if host != "" {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, wrapError(ErrInvalidHostName, err, "cannot convert server name %q", host)
		}
		host = ascii
	}

	port := 80
	if p, ok := server["SERVER_PORT"]; ok && p != "" {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, wrapError(ErrInvalidArgument, err, "invalid SERVER_PORT %q", p)
		}
		port = n
	}

	p := BaseURL(server)
	if requestURI, ok := server["REQUEST_URI"]; ok && requestURI != "" {
		p = requestURI
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
	}

	u, err := NewUri().WithScheme(scheme)
	if err != nil {
		return nil, err
	}
	if u, err = u.WithHost(host); err != nil {
		return nil, err
	}
	u = u.WithQuery(server["QUERY_STRING"])
	if u, err = u.WithPath(p); err != nil {
		return nil, err
	}
	return u.WithPort(port)
}

// BaseURL returns the URL path of the executing script: the script file
// name from SCRIPT_FILENAME located within PHP_SELF (or SCRIPT_NAME).
func BaseURL(server map[string]string) string {
	filename := baseName(server["SCRIPT_FILENAME"])
	if filename == "" {
		return "/"
	}
	self := server["PHP_SELF"]
	if self == "" {
		self = server["SCRIPT_NAME"]
	}
	trimmed := strings.Trim(self, "/")
	pos := strings.Index(trimmed, filename)
	if pos < 0 {
		pos = 0
	}
	return "/" + trimmed[:pos] + filename
}

// BasePath returns the directory of BaseURL when BaseURL ends with the
// script file name, and BaseURL otherwise.
func BasePath(server map[string]string) string {
	base := BaseURL(server)
	if filename := baseName(server["SCRIPT_FILENAME"]); filename != "" && path.Base(base) == filename {
		return strings.ReplaceAll(path.Dir(base), `\`, "/")
	}
	return base
}

func baseName(p string) string {
	p = strings.TrimRight(strings.ReplaceAll(p, `\`, "/"), "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
