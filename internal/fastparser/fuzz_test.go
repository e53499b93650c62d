package fastparser

import (
	"testing"
)

// FuzzParseRequest checks that arbitrary input never panics and that a
// successful parse splits the target without losing bytes.
func FuzzParseRequest(f *testing.F) {
	for _, seed := range []string{
		"GET /index.php?page=2 HTTP/1.0\r\nHost: example.com:8080\r\n\r\n",
		"POST /login HTTP/1.1\r\nContent-Type: application/x-www-form-urlencoded\r\nContent-Length: 9\r\n\r\nuser=anna",
		"PROPFIND /dav HTTP/1.1\r\nCookie: sid=1\r\nCookie: theme=dark\r\n\r\n",
		"GET / HTTP/1.1\nX-Folded: a\n\tb\n\n",
		"PUT / HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n0\r\n\r\n",
		"POST / HTTP/1.1\r\nContent-Length: -1\r\n\r\n",
		"GET /?#frag HTTP/2\r\n\r\n",
		" / HTTP/1.1\r\n\r\n",
		"\n",
		"",
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseRequest panicked on input %q: %v", data, r)
			}
		}()

		req, err := UnmarshalRequest(data)
		if err == nil && req.Path+queryPart(req.Query, req.Target) != req.Target {
			t.Errorf("Path %q + Query %q does not rebuild Target %q", req.Path, req.Query, req.Target)
		}
	})
}

func queryPart(q, target string) string {
	for i := 0; i < len(target); i++ {
		if target[i] == '?' {
			return "?" + q
		}
	}
	return ""
}
