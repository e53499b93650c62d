// Package fastparser splits a raw HTTP/1.x request into its request line,
// header fields and body without building an AST. The wire adapter uses it
// to turn captured requests into server environments.
package fastparser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrChunked is returned for requests framed with Transfer-Encoding: chunked.
var ErrChunked = errors.New("fastparser: chunked transfer-encoding is not supported")

// SyntaxError reports malformed input and the 1-based line it was found on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("fastparser: line %d: %s", e.Line, e.Msg)
}

// Request is a request split into its raw parts.
type Request struct {
	Method  string
	Target  string // request-target exactly as sent
	Path    string // Target up to the first '?'
	Query   string // Target after the first '?', without it
	Version string // e.g. "HTTP/1.1"
	Headers []Header
	Body    []byte
}

// Header is one header field as it appeared on the wire.
type Header struct {
	Key   string
	Value string
}

// Get returns the value of the first header matching key case-insensitively.
func (r *Request) Get(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// Values returns every value of the headers matching key, in order.
func (r *Request) Values(key string) []string {
	var out []string
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			out = append(out, h.Value)
		}
	}
	return out
}

// Parser consumes its input line by line.
type Parser struct {
	rest []byte
	line int
}

// NewParser creates a parser over data.
func NewParser(data []byte) *Parser {
	p := new(Parser)
	initParser(p, data)
	return p
}

func initParser(p *Parser, data []byte) {
	*p = Parser{rest: data}
}

// ParseRequest parses one request. A body is delimited by Content-Length,
// or runs to the end of the input when the header is absent.
func (p *Parser) ParseRequest() (*Request, error) {
	line, ok := p.next()
	if !ok {
		return nil, p.fail("missing request line")
	}
	req, err := p.requestLine(line)
	if err != nil {
		return nil, err
	}
	if req.Headers, err = p.headers(); err != nil {
		return nil, err
	}
	if chunked(req.Headers) {
		return nil, ErrChunked
	}
	if req.Body, err = p.body(req.Headers); err != nil {
		return nil, err
	}
	return req, nil
}

// next returns the next line without its CRLF or LF terminator.
func (p *Parser) next() ([]byte, bool) {
	if len(p.rest) == 0 {
		return nil, false
	}
	p.line++
	line, rest, found := bytes.Cut(p.rest, []byte{'\n'})
	if !found {
		rest = nil
	}
	p.rest = rest
	return bytes.TrimSuffix(line, []byte{'\r'}), true
}

// requestLine parses "METHOD SP TARGET SP VERSION".
func (p *Parser) requestLine(line []byte) (*Request, error) {
	fields := bytes.SplitN(line, []byte{' '}, 3)
	if len(fields) != 3 {
		return nil, p.fail("malformed request line %q", line)
	}
	method, target, version := fields[0], fields[1], fields[2]
	switch {
	case len(method) == 0:
		return nil, p.fail("empty request method")
	case len(target) == 0:
		return nil, p.fail("empty request target")
	case !bytes.HasPrefix(version, []byte("HTTP/")):
		return nil, p.fail("malformed protocol version %q", version)
	}

	req := &Request{
		Method:  internMethod(method),
		Target:  string(target),
		Version: internVersion(version),
	}
	req.Path, req.Query, _ = strings.Cut(req.Target, "?")
	return req, nil
}

// headers reads header fields up to the blank line or the end of input.
// Folded continuation lines are joined with a single space.
func (p *Parser) headers() ([]Header, error) {
	headers := make([]Header, 0, 8)
	for {
		line, ok := p.next()
		if !ok || len(line) == 0 {
			return headers, nil
		}
		for len(p.rest) > 0 && (p.rest[0] == ' ' || p.rest[0] == '\t') {
			cont, _ := p.next()
			line = append(line[:len(line):len(line)], ' ')
			line = append(line, bytes.TrimLeft(cont, " \t")...)
		}

		name, value, found := bytes.Cut(line, []byte{':'})
		switch {
		case !found:
			return nil, p.fail("header line without colon %q", line)
		case len(name) == 0:
			return nil, p.fail("empty header name")
		case name[len(name)-1] == ' ' || name[len(name)-1] == '\t':
			return nil, p.fail("whitespace before colon in header %q", name)
		}
		headers = append(headers, Header{
			Key:   internHeaderName(name),
			Value: string(bytes.Trim(value, " \t")),
		})
	}
}

func (p *Parser) body(headers []Header) ([]byte, error) {
	n, err := contentLength(headers)
	if err != nil {
		return nil, p.fail("%v", err)
	}
	body := p.rest
	if n >= 0 {
		if int64(len(p.rest)) < n {
			return nil, p.fail("body truncated: want %d bytes, have %d", n, len(p.rest))
		}
		body = p.rest[:n]
	}
	p.rest = p.rest[len(body):]
	if len(body) == 0 {
		return nil, nil
	}
	return bytes.Clone(body), nil
}

func chunked(headers []Header) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Key, "Transfer-Encoding") && strings.Contains(strings.ToLower(h.Value), "chunked") {
			return true
		}
	}
	return false
}

// contentLength returns the Content-Length value, or -1 when absent.
func contentLength(headers []Header) (int64, error) {
	for _, h := range headers {
		if !strings.EqualFold(h.Key, "Content-Length") {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(h.Value), 10, 64)
		if err != nil || n < 0 {
			return -1, fmt.Errorf("invalid Content-Length %q", h.Value)
		}
		return n, nil
	}
	return -1, nil
}

func (p *Parser) fail(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}
