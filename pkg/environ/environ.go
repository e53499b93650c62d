// Package environ builds httpmsg.Environment snapshots from concrete server
// runtimes and writes httpmsg.Response values back to them.
//
// Every adapter produces the same CGI-style server variables
// (REQUEST_METHOD, REQUEST_URI, QUERY_STRING, SERVER_PROTOCOL, SERVER_NAME,
// SERVER_PORT, REQUEST_SCHEME, CONTENT_TYPE, CONTENT_LENGTH and one HTTP_*
// entry per request header), so httpmsg.NewServerRequest behaves the same
// whichever transport received the request.
package environ

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// serverKey maps a header name to its CGI variable name.
func serverKey(name string) string {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	switch key {
	case "CONTENT_TYPE", "CONTENT_LENGTH":
		return key
	}
	return "HTTP_" + key
}

// addHeader stores a header in server, joining repeated headers with ", ".
func addHeader(server map[string]string, name, value string) {
	key := serverKey(name)
	if prev, ok := server[key]; ok && prev != "" {
		server[key] = prev + ", " + value
		return
	}
	server[key] = value
}

// setHost fills SERVER_NAME and SERVER_PORT from a Host header value.
func setHost(server map[string]string, host string, tls bool) {
	name, port, err := net.SplitHostPort(host)
	if err != nil {
		name, port = host, ""
	}
	if port == "" {
		port = "80"
		if tls {
			port = "443"
		}
	}
	server["SERVER_NAME"] = name
	server["SERVER_PORT"] = port
}

func setScheme(server map[string]string, tls bool) {
	if tls {
		server["REQUEST_SCHEME"] = "https"
		server["HTTPS"] = "on"
		return
	}
	server["REQUEST_SCHEME"] = "http"
}

// firstValues keeps the first value of every key.
func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func parseQuery(raw string) map[string]string {
	// malformed pairs are dropped, the rest is kept
	values, _ := url.ParseQuery(raw)
	return firstValues(values)
}

// parseCookies decodes a Cookie header; the first occurrence of a name wins.
func parseCookies(header string) map[string]string {
	out := map[string]string{}
	if header == "" {
		return out
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return out
	}
	for _, c := range cookies {
		if _, ok := out[c.Name]; !ok {
			out[c.Name] = c.Value
		}
	}
	return out
}

// headerFunc returns a HeadersFunc that reports the given raw headers.
func headerFunc(raw map[string]string) func() map[string]string {
	return func() map[string]string {
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			out[k] = v
		}
		return out
	}
}

func contentLength(n int64) string {
	if n < 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
