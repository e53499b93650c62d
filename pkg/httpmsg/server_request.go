package httpmsg

import (
	"fmt"
	"io"
	"strings"
)

// Bag selects a parameter source for ServerRequest.Param.
type Bag int

// Parameter sources.
const (
	ServerBag Bag = iota
	QueryBag
	CookieBag
	PostBag
	FileBag
)

// ServerRequest is an incoming request captured from an Environment.
// Server and file parameters are read-only; everything else changes only
// through With* copies.
type ServerRequest struct {
	Request
	serverParams map[string]string
	cookieParams map[string]string
	queryParams  map[string]string
	fileParams   map[string][]UploadedFile
	parsedBody   interface{}
	attributes   map[string]interface{}
}

// NewServerRequest captures env. It derives headers, method, protocol
// version, URI and request target, buffers the input into a temporary
// stream and parses it with the parser registered for the Content-Type.
// A nil env yields an empty request.
func NewServerRequest(env *Environment, opts ...Option) (*ServerRequest, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if env == nil {
		env = &Environment{}
	}

	sr := &ServerRequest{
		Request:      Request{Message: Message{version: Version11}},
		serverParams: cloneStrings(env.Server),
		cookieParams: cloneStrings(env.Cookies),
		queryParams:  cloneStrings(env.Query),
		fileParams:   cloneFiles(env.Files),
		attributes:   map[string]interface{}{},
	}
	sr.headers = ServerHeaders(sr.serverParams, env.HeadersFunc)
	sr.method = sr.serverParams["REQUEST_METHOD"]
	if v := serverProtocol(sr.serverParams); v != "" {
		sr.version = v
	}

	body := NewTempStream()
	if env.Input != nil {
		in := env.Input
		if o.bufferLimit > 0 {
			in = io.LimitReader(in, o.bufferLimit+1)
		}
		n, err := io.Copy(body, in)
		if err != nil {
			return nil, wrapError(ErrInvalidArgument, err, "cannot buffer request body")
		}
		if o.bufferLimit > 0 && n > o.bufferLimit {
			return nil, newError(ErrInvalidArgument, "request body exceeds %d bytes", o.bufferLimit)
		}
	}
	if err := body.Rewind(); err != nil {
		return nil, err
	}
	sr.body = body

	parser := o.factory.ParserForRequest(&sr.Request)
	parsed, err := parser.Parse(body)
	if err != nil {
		return nil, err
	}
	if err := body.Rewind(); err != nil {
		return nil, err
	}
	sr.parsedBody = parsed

	uri, err := DetectUri(sr.serverParams)
	if err != nil {
		return nil, err
	}
	sr.uri = uri
	if target, ok := sr.serverParams["REQUEST_URI"]; ok {
		sr.target = target
		sr.hasTarget = true
	}

	contentType, _ := sr.Header("Content-Type")
	o.logger.Debug().
		Str("method", sr.method).
		Str("target", sr.RequestTarget()).
		Str("content_type", contentType).
		Str("parser", fmt.Sprintf("%T", parser)).
		Int64("body_size", body.Size()).
		Msg("server request captured")

	return sr, nil
}

func (s *ServerRequest) clone() *ServerRequest {
	c := *s
	c.headers = s.headers.Clone()
	return &c
}

func (s *ServerRequest) withRequest(r *Request) *ServerRequest {
	c := *s
	c.Request = *r
	return &c
}

// ServerParams returns a copy of the server variables.
func (s *ServerRequest) ServerParams() map[string]string {
	return cloneStrings(s.serverParams)
}

// CookieParams returns a copy of the cookies.
func (s *ServerRequest) CookieParams() map[string]string {
	return cloneStrings(s.cookieParams)
}

// QueryParams returns a copy of the query parameters.
func (s *ServerRequest) QueryParams() map[string]string {
	return cloneStrings(s.queryParams)
}

// FileParams returns a copy of the upload metadata.
func (s *ServerRequest) FileParams() map[string][]UploadedFile {
	return cloneFiles(s.fileParams)
}

// Files returns the uploads stored under name, or nil.
func (s *ServerRequest) Files(name string) []UploadedFile {
	return append([]UploadedFile(nil), s.fileParams[name]...)
}

// ParsedBody returns the parsed body: nil, a map, a slice or a struct.
func (s *ServerRequest) ParsedBody() interface{} {
	return s.parsedBody
}

// WithCookieParams returns a copy using cookies, which must be a map with
// string keys and string values.
func (s *ServerRequest) WithCookieParams(cookies interface{}) (*ServerRequest, error) {
	if !IsKeyValueArray(cookies) {
		return nil, newError(ErrInvalidArgument, "cookie parameters must map strings to strings, got %T", cookies)
	}
	c := s.clone()
	c.cookieParams = toStringMap(cookies)
	return c, nil
}

// WithQueryParams returns a copy using query, which must be a map with
// string keys and string values.
func (s *ServerRequest) WithQueryParams(query interface{}) (*ServerRequest, error) {
	if !IsKeyValueArray(query) {
		return nil, newError(ErrInvalidArgument, "query parameters must map strings to strings, got %T", query)
	}
	c := s.clone()
	c.queryParams = toStringMap(query)
	return c, nil
}

// WithParsedBody returns a copy using data, which must be nil, a map, a
// slice, an array, a struct or a pointer to one of those.
func (s *ServerRequest) WithParsedBody(data interface{}) (*ServerRequest, error) {
	if !isStructured(data) {
		return nil, newError(ErrInvalidArgument, "parsed body can only be nil, a map, a slice or a struct, got %T", data)
	}
	c := s.clone()
	c.parsedBody = data
	return c, nil
}

// Attributes returns a copy of the request attributes.
func (s *ServerRequest) Attributes() map[string]interface{} {
	out := make(map[string]interface{}, len(s.attributes))
	for k, v := range s.attributes {
		out[k] = v
	}
	return out
}

// Attribute returns the attribute stored under name, or def.
func (s *ServerRequest) Attribute(name string, def interface{}) interface{} {
	if v, ok := s.attributes[name]; ok {
		return v
	}
	return def
}

// WithAttribute returns a copy with name set to value.
func (s *ServerRequest) WithAttribute(name string, value interface{}) *ServerRequest {
	c := s.clone()
	c.attributes = s.Attributes()
	c.attributes[name] = value
	return c
}

// WithoutAttribute returns a copy without name.
func (s *ServerRequest) WithoutAttribute(name string) *ServerRequest {
	c := s.clone()
	c.attributes = s.Attributes()
	delete(c.attributes, name)
	return c
}

// Param returns the value named name from bag, or def when absent. PostBag
// reads the parsed body when it is a map with string keys.
func (s *ServerRequest) Param(bag Bag, name string, def interface{}) interface{} {
	switch bag {
	case ServerBag:
		if v, ok := s.serverParams[name]; ok {
			return v
		}
	case QueryBag:
		if v, ok := s.queryParams[name]; ok {
			return v
		}
	case CookieBag:
		if v, ok := s.cookieParams[name]; ok {
			return v
		}
	case PostBag:
		switch body := s.parsedBody.(type) {
		case map[string]string:
			if v, ok := body[name]; ok {
				return v
			}
		case map[string]interface{}:
			if v, ok := body[name]; ok {
				return v
			}
		}
	case FileBag:
		if v, ok := s.fileParams[name]; ok {
			return append([]UploadedFile(nil), v...)
		}
	}
	return def
}

// IsMethod reports whether the request method equals method, ignoring case.
func (s *ServerRequest) IsMethod(method string) bool {
	return strings.EqualFold(s.method, method)
}

// BaseURL returns the URL path of the executing script.
func (s *ServerRequest) BaseURL() string {
	return BaseURL(s.serverParams)
}

// BasePath returns the directory part of BaseURL.
func (s *ServerRequest) BasePath() string {
	return BasePath(s.serverParams)
}

// WithProtocolVersion returns a copy using version.
func (s *ServerRequest) WithProtocolVersion(version string) (*ServerRequest, error) {
	r, err := s.Request.WithProtocolVersion(version)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

// WithHeader returns a copy in which name is replaced by values.
func (s *ServerRequest) WithHeader(name string, values ...string) (*ServerRequest, error) {
	r, err := s.Request.WithHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

// WithAddedHeader returns a copy with values appended to name.
func (s *ServerRequest) WithAddedHeader(name string, values ...string) (*ServerRequest, error) {
	r, err := s.Request.WithAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

// WithoutHeader returns a copy without name.
func (s *ServerRequest) WithoutHeader(name string) *ServerRequest {
	return s.withRequest(s.Request.WithoutHeader(name))
}

// WithBody returns a copy holding body.
func (s *ServerRequest) WithBody(body Stream) (*ServerRequest, error) {
	r, err := s.Request.WithBody(body)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

// WithMethod returns a copy using method.
func (s *ServerRequest) WithMethod(method string) (*ServerRequest, error) {
	r, err := s.Request.WithMethod(method)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

// WithUri returns a copy holding uri.
func (s *ServerRequest) WithUri(uri *Uri) *ServerRequest {
	return s.withRequest(s.Request.WithUri(uri))
}

// WithRequestTarget returns a copy whose request target is target.
func (s *ServerRequest) WithRequestTarget(target string) *ServerRequest {
	return s.withRequest(s.Request.WithRequestTarget(target))
}

func cloneFiles(m map[string][]UploadedFile) map[string][]UploadedFile {
	out := make(map[string][]UploadedFile, len(m))
	for k, v := range m {
		out[k] = append([]UploadedFile(nil), v...)
	}
	return out
}
