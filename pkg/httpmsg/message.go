// Package httpmsg provides immutable HTTP/1.x message value objects.
//
// Message, Request, Response, ServerRequest and Uri never change after
// construction. Every With* method returns a new value with exactly one
// component replaced and leaves the receiver untouched, so values can be
// shared freely between goroutines and middleware layers.
//
// # Headers
//
// Header names are matched case-insensitively. At most one stored entry
// exists per case-insensitive name; WithHeader keeps the casing of the most
// recent assignment while WithAddedHeader appends under the existing casing.
//
// # Bodies
//
// The body is a Stream handle. Copies share the handle: reading the body of
// one copy advances the cursor observed by all of them.
package httpmsg

// Supported protocol versions.
const (
	Version10 = "1.0"
	Version11 = "1.1"
	Version20 = "2.0"
)

// Message holds the protocol version, headers and body shared by requests
// and responses. The zero value is an HTTP/1.1 message with no headers and
// no body.
type Message struct {
	version string
	headers Headers
	body    Stream
}

// NewMessage returns an empty HTTP/1.1 message.
func NewMessage() *Message {
	return &Message{version: Version11}
}

func (m *Message) clone() *Message {
	c := *m
	c.headers = m.headers.Clone()
	return &c
}

// ProtocolVersion returns the HTTP version number, e.g. "1.1".
func (m *Message) ProtocolVersion() string {
	if m.version == "" {
		return Version11
	}
	return m.version
}

// WithProtocolVersion returns a copy using version, which must be "1.0",
// "1.1" or "2.0".
func (m *Message) WithProtocolVersion(version string) (*Message, error) {
	if !IsProtocolVersion(version) {
		return nil, newError(ErrInvalidVersion, "%q is not a valid HTTP protocol version", version)
	}
	c := m.clone()
	c.version = version
	return c, nil
}

// Headers returns a deep copy of the stored headers in insertion order.
func (m *Message) Headers() Headers {
	return m.headers.Clone()
}

// HasHeader reports whether a header exists, ignoring case.
func (m *Message) HasHeader(name string) bool {
	return m.headers.Has(name)
}

// HeaderLines returns the values stored for name.
func (m *Message) HeaderLines(name string) ([]string, error) {
	return headerLines(m.headers, name)
}

// Header returns the values stored for name joined with ", ".
func (m *Message) Header(name string) (string, error) {
	return headerLine(m.headers, name)
}

// WithHeader returns a copy in which name is replaced by values. Any
// existing case variant of name is removed first.
func (m *Message) WithHeader(name string, values ...string) (*Message, error) {
	if err := checkHeader(name, values); err != nil {
		return nil, err
	}
	c := m.clone()
	c.headers.Set(name, values...)
	return c, nil
}

// WithAddedHeader returns a copy with values appended to name, keeping the
// casing under which name is already stored.
func (m *Message) WithAddedHeader(name string, values ...string) (*Message, error) {
	if err := checkHeader(name, values); err != nil {
		return nil, err
	}
	c := m.clone()
	c.headers.Add(name, values...)
	return c, nil
}

// WithoutHeader returns a copy without name. Removing an absent header is
// not an error.
func (m *Message) WithoutHeader(name string) *Message {
	c := m.clone()
	c.headers.Del(name)
	return c
}

// Body returns the body stream, or nil when none was set.
func (m *Message) Body() Stream {
	return m.body
}

// WithBody returns a copy holding body. The stream is shared, not duplicated.
func (m *Message) WithBody(body Stream) (*Message, error) {
	if body == nil {
		return nil, newError(ErrInvalidArgument, "body must be a non-nil stream")
	}
	c := m.clone()
	c.body = body
	return c, nil
}

func checkHeader(name string, values []string) error {
	if !IsHeaderName(name) {
		return newError(ErrInvalidArgument, "invalid header name %q", name)
	}
	if !IsHeaderValue(values) {
		return newError(ErrInvalidArgument, "the value for header %s must be one or more strings without CR or LF", name)
	}
	return nil
}

func headerLines(h Headers, name string) ([]string, error) {
	if name == "" {
		return nil, newError(ErrInvalidArgument, "header name must not be empty")
	}
	i := h.index(name)
	if i < 0 {
		return nil, newError(ErrMissingHeader, "header %q does not exist in the message", name)
	}
	return append([]string(nil), h[i].Values...), nil
}

func headerLine(h Headers, name string) (string, error) {
	lines, err := headerLines(h, name)
	if err != nil {
		return "", err
	}
	return joinValues(lines), nil
}

func joinValues(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	n := 2 * (len(values) - 1)
	for _, v := range values {
		n += len(v)
	}
	b := make([]byte, 0, n)
	for i, v := range values {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = append(b, v...)
	}
	return string(b)
}
