package httpmsg

import (
	"net/url"
	"reflect"
	"sync"

	"github.com/goccy/go-json"
)

// Content types with a registered parser.
const (
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeJSON           = "application/json"
)

// BodyParser turns a request body into a parsed-body value: nil, a map,
// a slice or a struct.
type BodyParser interface {
	Parse(content Stream) (interface{}, error)
}

// BodyParserFunc adapts a function to BodyParser.
type BodyParserFunc func(content Stream) (interface{}, error)

// Parse calls f(content).
func (f BodyParserFunc) Parse(content Stream) (interface{}, error) { return f(content) }

// NullParser ignores the content and returns nil.
type NullParser struct{}

// Parse returns nil, nil.
func (NullParser) Parse(Stream) (interface{}, error) { return nil, nil }

// URLEncodedParser decodes an application/x-www-form-urlencoded body into a
// map[string]string. When a key repeats, the first value wins.
type URLEncodedParser struct{}

// Parse decodes content.
func (URLEncodedParser) Parse(content Stream) (interface{}, error) {
	raw, err := readContent(content)
	if err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, wrapError(ErrParsingFailure, err, "cannot decode form body")
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

// JSONParser decodes an application/json body. An empty body yields nil.
// Top-level scalars are rejected because a parsed body must be structured.
type JSONParser struct{}

// Parse decodes content.
func (JSONParser) Parse(content Stream) (interface{}, error) {
	raw, err := readContent(content)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, wrapError(ErrParsingFailure, err, "cannot decode JSON body")
	}
	if !isStructured(v) {
		return nil, newError(ErrParsingFailure, "JSON body must be an object, an array or null")
	}
	return v, nil
}

func readContent(content Stream) (string, error) {
	if content == nil {
		return "", newError(ErrMissingContent, "no content stream to parse")
	}
	raw, err := content.Contents()
	if err != nil {
		return "", wrapError(ErrParsingFailure, err, "cannot read content")
	}
	return raw, nil
}

var namedParsers = map[string]func() BodyParser{
	"null":       func() BodyParser { return NullParser{} },
	"urlencoded": func() BodyParser { return URLEncodedParser{} },
	"json":       func() BodyParser { return JSONParser{} },
}

// LookupParser returns the parser registered under name: "null",
// "urlencoded" or "json".
func LookupParser(name string) (BodyParser, error) {
	ctor, ok := namedParsers[name]
	if !ok {
		return nil, newError(ErrInvalidArgument, "unknown parser %q", name)
	}
	return ctor(), nil
}

// ParserFactory selects a BodyParser by exact Content-Type match and falls
// back to NullParser for anything unregistered. It is safe for concurrent use.
type ParserFactory struct {
	mu      sync.RWMutex
	parsers map[string]BodyParser
}

// NewParserFactory returns a factory with the form parser registered.
func NewParserFactory() *ParserFactory {
	return &ParserFactory{
		parsers: map[string]BodyParser{
			ContentTypeFormURLEncoded: URLEncodedParser{},
		},
	}
}

// Register binds contentType to p, replacing any earlier binding.
func (f *ParserFactory) Register(contentType string, p BodyParser) *ParserFactory {
	f.mu.Lock()
	f.parsers[contentType] = p
	f.mu.Unlock()
	return f
}

// ParserFor returns the parser for contentType, or NullParser.
func (f *ParserFactory) ParserFor(contentType string) BodyParser {
	f.mu.RLock()
	p, ok := f.parsers[contentType]
	f.mu.RUnlock()
	if !ok {
		return NullParser{}
	}
	return p
}

// ParserForRequest returns the parser for the request's Content-Type header.
func (f *ParserFactory) ParserForRequest(r *Request) BodyParser {
	ct, err := r.Header("Content-Type")
	if err != nil {
		return NullParser{}
	}
	return f.ParserFor(ct)
}

// isStructured reports whether v may be used as a parsed body.
func isStructured(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}
