package httpmsg

import "strings"

// Request methods.
const (
	MethodGet      = "GET"
	MethodPost     = "POST"
	MethodPut      = "PUT"
	MethodDelete   = "DELETE"
	MethodHead     = "HEAD"
	MethodOptions  = "OPTIONS"
	MethodTrace    = "TRACE"
	MethodConnect  = "CONNECT"
	MethodPatch    = "PATCH"
	MethodPropfind = "PROPFIND"
)

// requestMethods is the set accepted by WithMethod, keyed upper-case.
var requestMethods = map[string]struct{}{
	MethodGet:      {},
	MethodPost:     {},
	MethodPut:      {},
	MethodDelete:   {},
	MethodHead:     {},
	MethodOptions:  {},
	MethodTrace:    {},
	MethodConnect:  {},
	MethodPatch:    {},
	MethodPropfind: {},
}

// Request is an immutable outgoing or incoming HTTP request.
//
// When no Host header is stored and the URI has a host, Headers, Header,
// HeaderLines and HasHeader report a synthesized Host entry. It is never
// written into the stored headers.
type Request struct {
	Message
	method    string
	uri       *Uri
	target    string
	hasTarget bool
}

// NewRequest returns an HTTP/1.1 request with no method, URI or headers.
func NewRequest() *Request {
	return &Request{Message: Message{version: Version11}}
}

func (r *Request) clone() *Request {
	c := *r
	c.headers = r.headers.Clone()
	return &c
}

func (r *Request) withMessage(m *Message) *Request {
	c := *r
	c.Message = *m
	return &c
}

// Method returns the method exactly as set, or "" when unset.
func (r *Request) Method() string { return r.method }

// WithMethod returns a copy using method. The method is matched
// case-insensitively against the known methods and stored verbatim.
func (r *Request) WithMethod(method string) (*Request, error) {
	if !IsHTTPMethod(method) {
		return nil, newError(ErrInvalidArgument, "invalid request method %q", method)
	}
	c := r.clone()
	c.method = method
	return c, nil
}

// Uri returns the request URI, or nil when none is set.
func (r *Request) Uri() *Uri { return r.uri }

// WithUri returns a copy holding uri.
func (r *Request) WithUri(uri *Uri) *Request {
	c := r.clone()
	c.uri = uri
	return c
}

// RequestTarget returns the explicit target when set, otherwise the
// origin-form derived from the URI, otherwise "/".
func (r *Request) RequestTarget() string {
	if r.hasTarget {
		return r.target
	}
	if r.uri == nil {
		return "/"
	}
	target := r.uri.Path()
	if target == "" {
		target = "/"
	}
	if q := r.uri.Query(); q != "" {
		target += "?" + q
	}
	return target
}

// WithRequestTarget returns a copy whose request target is target, verbatim.
func (r *Request) WithRequestTarget(target string) *Request {
	c := r.clone()
	c.target = target
	c.hasTarget = true
	return c
}

// Headers returns a copy of the headers including a synthesized Host entry
// when applicable. The synthesized entry comes first.
func (r *Request) Headers() Headers {
	h := r.headers.Clone()
	if host, ok := r.syntheticHost(); ok {
		h = append(Headers{{Key: "Host", Values: []string{host}}}, h...)
	}
	return h
}

// HasHeader reports whether a header exists, ignoring case.
func (r *Request) HasHeader(name string) bool {
	if r.headers.Has(name) {
		return true
	}
	_, ok := r.syntheticHost()
	return ok && strings.EqualFold(name, "Host")
}

// HeaderLines returns the values stored for name.
func (r *Request) HeaderLines(name string) ([]string, error) {
	if host, ok := r.syntheticHost(); ok && strings.EqualFold(name, "Host") {
		return []string{host}, nil
	}
	return headerLines(r.headers, name)
}

// Header returns the values stored for name joined with ", ".
func (r *Request) Header(name string) (string, error) {
	if host, ok := r.syntheticHost(); ok && strings.EqualFold(name, "Host") {
		return host, nil
	}
	return headerLine(r.headers, name)
}

func (r *Request) syntheticHost() (string, bool) {
	if r.uri == nil || r.uri.Host() == "" || r.headers.Has("Host") {
		return "", false
	}
	return r.uri.Host(), true
}

// WithProtocolVersion returns a copy using version.
func (r *Request) WithProtocolVersion(version string) (*Request, error) {
	m, err := r.Message.WithProtocolVersion(version)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}

// WithHeader returns a copy in which name is replaced by values.
func (r *Request) WithHeader(name string, values ...string) (*Request, error) {
	m, err := r.Message.WithHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}

// WithAddedHeader returns a copy with values appended to name.
func (r *Request) WithAddedHeader(name string, values ...string) (*Request, error) {
	m, err := r.Message.WithAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}

// WithoutHeader returns a copy without name.
func (r *Request) WithoutHeader(name string) *Request {
	return r.withMessage(r.Message.WithoutHeader(name))
}

// WithBody returns a copy holding body.
func (r *Request) WithBody(body Stream) (*Request, error) {
	m, err := r.Message.WithBody(body)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}
