package httpmsg

import (
	"strconv"
	"strings"
)

// reasonPhrases is the fixed table of recommended reason phrases.
// Status codes outside this table are rejected by WithStatus.
var reasonPhrases = map[int]string{
	// informational
	100: "Continue",
	101: "Switching Protocols",
	102: "Processing",
	// success
	200: "OK",
	201: "Created",
	202: "Accepted",
	203: "Non-Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",
	207: "Multi-status",
	208: "Already Reported",
	// redirection
	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	305: "Use Proxy",
	306: "Switch Proxy",
	307: "Temporary Redirect",
	// client error
	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Time-out",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Request Entity Too Large",
	414: "Request-URI Too Long",
	415: "Unsupported Media Type",
	416: "Requested range not satisfiable",
	417: "Expectation Failed",
	418: "I'm a teapot",
	422: "Unprocessable Entity",
	423: "Locked",
	424: "Failed Dependency",
	425: "Unordered Collection",
	426: "Upgrade Required",
	428: "Precondition Required",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	// server error
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Time-out",
	505: "HTTP Version not supported",
	506: "Variant Also Negotiates",
	507: "Insufficient Storage",
	508: "Loop Detected",
	511: "Network Authentication Required",
}

// ReasonPhrase returns the recommended reason phrase for code, or "" when
// the code is not in the table.
func ReasonPhrase(code int) string {
	return reasonPhrases[code]
}

// RecommendedReasonPhrases returns a copy of the reason phrase table.
func RecommendedReasonPhrases() map[int]string {
	out := make(map[int]string, len(reasonPhrases))
	for k, v := range reasonPhrases {
		out[k] = v
	}
	return out
}

// Response is an immutable HTTP response. The zero value is a
// 200 OK HTTP/1.1 response.
type Response struct {
	Message
	statusCode   int
	reasonPhrase string
	hasReason    bool
}

// NewResponse returns a 200 OK HTTP/1.1 response.
func NewResponse() *Response {
	return &Response{Message: Message{version: Version11}}
}

func (r *Response) clone() *Response {
	c := *r
	c.headers = r.headers.Clone()
	return &c
}

func (r *Response) withMessage(m *Message) *Response {
	c := *r
	c.Message = *m
	return &c
}

// StatusCode returns the status code.
func (r *Response) StatusCode() int {
	if r.statusCode == 0 {
		return 200
	}
	return r.statusCode
}

// ReasonPhrase returns the reason phrase.
func (r *Response) ReasonPhrase() string {
	if !r.hasReason {
		return reasonPhrases[r.StatusCode()]
	}
	return r.reasonPhrase
}

// WithStatus returns a copy using code, which must be in the reason phrase
// table. The optional reasonPhrase replaces the recommended phrase.
func (r *Response) WithStatus(code int, reasonPhrase ...string) (*Response, error) {
	if !IsStatusCode(code) {
		return nil, newError(ErrInvalidArgument, "invalid status code %d", code)
	}
	c := r.clone()
	c.statusCode = code
	c.hasReason = true
	c.reasonPhrase = reasonPhrases[code]
	if len(reasonPhrase) > 0 {
		c.reasonPhrase = reasonPhrase[0]
	}
	return c, nil
}

// RenderStatusLine returns "HTTP/{version} {code} {reason}", trimmed.
func (r *Response) RenderStatusLine() string {
	line := "HTTP/" + r.ProtocolVersion() + " " + strconv.Itoa(r.StatusCode()) + " " + r.ReasonPhrase()
	return strings.TrimSpace(line)
}

// WithProtocolVersion returns a copy using version.
func (r *Response) WithProtocolVersion(version string) (*Response, error) {
	m, err := r.Message.WithProtocolVersion(version)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}

// WithHeader returns a copy in which name is replaced by values.
func (r *Response) WithHeader(name string, values ...string) (*Response, error) {
	m, err := r.Message.WithHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}

// WithAddedHeader returns a copy with values appended to name.
func (r *Response) WithAddedHeader(name string, values ...string) (*Response, error) {
	m, err := r.Message.WithAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}

// WithoutHeader returns a copy without name.
func (r *Response) WithoutHeader(name string) *Response {
	return r.withMessage(r.Message.WithoutHeader(name))
}

// WithBody returns a copy holding body.
func (r *Response) WithBody(body Stream) (*Response, error) {
	m, err := r.Message.WithBody(body)
	if err != nil {
		return nil, err
	}
	return r.withMessage(m), nil
}
