package fastparser

import (
	"errors"
	"testing"
)

func TestParseRequest_Simple(t *testing.T) {
	data := []byte("GET /api/users HTTP/1.1\r\nHost: example.com\r\n\r\n")
	p := NewParser(data)
	req, err := p.ParseRequest()
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Target != "/api/users" {
		t.Errorf("Target = %q, want /api/users", req.Target)
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q, want HTTP/1.1", req.Version)
	}
	if len(req.Headers) != 1 {
		t.Fatalf("Headers count = %d, want 1", len(req.Headers))
	}
	if req.Get("host") != "example.com" {
		t.Errorf("Get(host) = %q, want example.com", req.Get("host"))
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
}

func TestParseRequest_WithQueryString(t *testing.T) {
	data := []byte("GET /search?q=hello&page=1 HTTP/1.1\r\nHost: example.com\r\n\r\n")
	req, err := NewParser(data).ParseRequest()
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	if req.Target != "/search?q=hello&page=1" {
		t.Errorf("Target = %q, want /search?q=hello&page=1", req.Target)
	}
	if req.Path != "/search" {
		t.Errorf("Path = %q, want /search", req.Path)
	}
	if req.Query != "q=hello&page=1" {
		t.Errorf("Query = %q, want q=hello&page=1", req.Query)
	}
}

func TestParseRequest_ContentLengthBody(t *testing.T) {
	data := []byte("POST /form HTTP/1.0\r\nContent-Type: application/x-www-form-urlencoded\r\nContent-Length: 7\r\n\r\na=1&b=2trailing")
	req, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	if string(req.Body) != "a=1&b=2" {
		t.Errorf("Body = %q, want a=1&b=2", req.Body)
	}
	if req.Version != "HTTP/1.0" {
		t.Errorf("Version = %q, want HTTP/1.0", req.Version)
	}
}

func TestParseRequest_ObsFold(t *testing.T) {
	data := []byte("GET / HTTP/1.1\r\nX-Long: first\r\n  second\r\n\r\n")
	req, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	if got := req.Get("X-Long"); got != "first second" {
		t.Errorf("X-Long = %q, want %q", got, "first second")
	}
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed request line", "GETHTTP/1.1\r\n\r\n"},
		{"no version", "GET /\r\n\r\n"},
		{"bad version", "GET / FTP/1.0\r\n\r\n"},
		{"header without colon", "GET / HTTP/1.1\r\nBad Header\r\n\r\n"},
		{"space before colon", "GET / HTTP/1.1\r\nHost : x\r\n\r\n"},
		{"truncated body", "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc"},
		{"invalid content length", "POST / HTTP/1.1\r\nContent-Length: x\r\n\r\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalRequest([]byte(tt.data)); err == nil {
				t.Errorf("UnmarshalRequest(%q) expected error", tt.data)
			}
		})
	}
}

func TestParseRequest_ChunkedRejected(t *testing.T) {
	data := []byte("POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n3\r\nfoo\r\n0\r\n\r\n")
	_, err := UnmarshalRequest(data)
	if !errors.Is(err, ErrChunked) {
		t.Errorf("UnmarshalRequest() error = %v, want ErrChunked", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]byte("DELETE /x HTTP/1.1\r\n\r\n")); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := Validate([]byte("nonsense")); err == nil {
		t.Error("Validate() expected error")
	}
}

func TestInternMethod(t *testing.T) {
	for _, m := range []string{"GET", "PATCH", "PROPFIND"} {
		if got := internMethod([]byte(m)); got != m {
			t.Errorf("internMethod(%q) = %q", m, got)
		}
	}
	if got := internMethod([]byte("BREW")); got != "BREW" {
		t.Errorf("internMethod(BREW) = %q", got)
	}
}

func TestInternHeaderName_NoAlloc(t *testing.T) {
	known := []byte("Content-Type")
	allocs := testing.AllocsPerRun(100, func() {
		_ = internHeaderName(known)
	})
	if allocs != 0 {
		t.Errorf("internHeaderName(known) allocs = %v, want 0", allocs)
	}
	if got := internVersion([]byte("HTTP/9")); got != "HTTP/9" {
		t.Errorf("internVersion(HTTP/9) = %q", got)
	}
}

func TestParseRequest_SyntaxErrorLine(t *testing.T) {
	_, err := UnmarshalRequest([]byte("GET / HTTP/1.1\r\nHost: x\r\nBroken\r\n\r\n"))
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Line != 3 {
		t.Errorf("Line = %d, want 3", se.Line)
	}
}

func TestParseRequest_LFOnlyAndRepeatedHeaders(t *testing.T) {
	data := []byte("GET /a HTTP/1.1\nAccept: text/html\naccept: */*\n\n")
	req, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	got := req.Values("ACCEPT")
	if len(got) != 2 || got[0] != "text/html" || got[1] != "*/*" {
		t.Errorf("Values(ACCEPT) = %v", got)
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
}

func TestParseRequest_BodyIsCopied(t *testing.T) {
	data := []byte("POST / HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc")
	req, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] = 'z'
	if string(req.Body) != "abc" {
		t.Errorf("Body = %q, want abc", req.Body)
	}
}
