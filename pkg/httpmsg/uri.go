package httpmsg

import (
	"strconv"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-httpmsg/internal/parser"
)

// defaultPorts maps each supported scheme to its canonical port.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// Uri is an immutable URI value. The zero value is the empty URI.
type Uri struct {
	scheme      string
	user        string
	password    string
	hasPassword bool
	host        string
	port        int // 0 means unset
	path        string
	query       string
	fragment    string
}

// NewUri returns an empty URI.
func NewUri() *Uri {
	return &Uri{}
}

// ParseUri decomposes s into its components. Every component passes
// through the matching With* mutator, so ParseUri enforces the same rules.
func ParseUri(s string) (*Uri, error) {
	node, err := parser.NewParser(s).Parse()
	if err != nil {
		return nil, wrapError(ErrInvalidArgument, err, "cannot decompose %q into URI components", s)
	}
	return NodeToUri(node)
}

func (u *Uri) clone() *Uri {
	c := *u
	return &c
}

// Scheme returns the lower-case scheme without "://", or "".
func (u *Uri) Scheme() string { return u.scheme }

// Host returns the host, or "" when none is set.
func (u *Uri) Host() string { return u.host }

// Path returns the normalized path. The root path is "".
func (u *Uri) Path() string { return u.path }

// Query returns the query string without the leading '?'.
func (u *Uri) Query() string { return u.query }

// Fragment returns the fragment without the leading '#'.
func (u *Uri) Fragment() string { return u.fragment }

// Port returns the port, or 0 when it is unset or equals the default port
// of the current scheme.
func (u *Uri) Port() int {
	if u.port == 0 {
		return 0
	}
	if def, ok := defaultPorts[u.scheme]; ok && def == u.port {
		return 0
	}
	return u.port
}

// UserInfo returns "user[:password]", or "" when no user is set.
func (u *Uri) UserInfo() string {
	if u.user == "" {
		return ""
	}
	if u.hasPassword {
		return u.user + ":" + u.password
	}
	return u.user
}

// Authority returns "[userinfo@]host[:port]", omitting empty parts.
func (u *Uri) Authority() string {
	var b strings.Builder
	if ui := u.UserInfo(); ui != "" {
		b.WriteString(ui)
		b.WriteByte('@')
	}
	b.WriteString(u.host)
	if p := u.Port(); p != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}

// String renders the URI. A well-formed absolute URI round-trips through
// ParseUri and String unchanged.
func (u *Uri) String() string {
	var b strings.Builder
	if u.scheme != "" {
		b.WriteString(u.scheme)
		b.WriteString("://")
	}
	b.WriteString(u.Authority())
	b.WriteString(u.path)
	if u.query != "" {
		b.WriteByte('?')
		b.WriteString(u.query)
	}
	if u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}

// WithScheme returns a copy using scheme. A trailing "://" is stripped and
// the result lower-cased; only "", "http" and "https" are accepted.
func (u *Uri) WithScheme(scheme string) (*Uri, error) {
	s := strings.ToLower(strings.TrimSuffix(scheme, "://"))
	if _, ok := defaultPorts[s]; !ok && s != "" {
		return nil, newError(ErrInvalidScheme, "unsupported scheme %q; supported schemes are http, https or empty", scheme)
	}
	c := u.clone()
	c.scheme = s
	return c, nil
}

// WithUserInfo returns a copy with the given user and password. An empty
// password means no password; an empty user clears the user info.
func (u *Uri) WithUserInfo(user, password string) *Uri {
	c := u.clone()
	c.user = user
	c.password = password
	c.hasPassword = user != "" && password != ""
	if !c.hasPassword {
		c.password = ""
	}
	return c
}

// WithHost returns a copy using host, which must be empty or a valid host name.
func (u *Uri) WithHost(host string) (*Uri, error) {
	if host != "" && !IsHostName(host) {
		return nil, newError(ErrInvalidHostName, "the host name %q is not valid", host)
	}
	c := u.clone()
	c.host = host
	return c, nil
}

// WithPort returns a copy using port. Accepted ports are 80, 443 and the
// range 1024 to 49151. Use WithoutPort to clear it.
func (u *Uri) WithPort(port int) (*Uri, error) {
	if !isValidPort(port) {
		return nil, newError(ErrInvalidArgument, "the port %d is not valid", port)
	}
	c := u.clone()
	c.port = port
	return c, nil
}

// WithoutPort returns a copy with no port.
func (u *Uri) WithoutPort() *Uri {
	c := u.clone()
	c.port = 0
	return c
}

// WithPath returns a copy using path. Doubled slashes are collapsed, a
// leading slash is added and a trailing one removed, so "/" becomes "".
// Paths containing whitespace are rejected.
func (u *Uri) WithPath(path string) (*Uri, error) {
	if strings.ContainsAny(path, " \t\r\n\v\f") {
		return nil, newError(ErrInvalidArgument, "the path %q contains whitespace", path)
	}
	c := u.clone()
	c.path = normalizePath(path)
	return c, nil
}

// WithQuery returns a copy using query, without one leading '?'.
func (u *Uri) WithQuery(query string) *Uri {
	c := u.clone()
	c.query = strings.TrimPrefix(query, "?")
	return c
}

// WithFragment returns a copy using fragment, without one leading '#'.
func (u *Uri) WithFragment(fragment string) *Uri {
	c := u.clone()
	c.fragment = strings.TrimPrefix(fragment, "#")
	return c
}

func isValidPort(port int) bool {
	for _, def := range defaultPorts {
		if port == def {
			return true
		}
	}
	return port >= 1024 && port <= 49151
}

func normalizePath(path string) string {
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}

// UriToNode converts u into a shape-core AST ObjectNode with the same layout
// the URI parser produces.
func UriToNode(u *Uri) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"path":     ast.NewLiteralNode(u.path, zeroPos),
		"query":    ast.NewLiteralNode(u.query, zeroPos),
		"fragment": ast.NewLiteralNode(u.fragment, zeroPos),
	}
	if u.scheme != "" {
		props["scheme"] = ast.NewLiteralNode(u.scheme, zeroPos)
	}
	if u.host != "" {
		props["host"] = ast.NewLiteralNode(u.host, zeroPos)
	}
	if u.user != "" {
		props["user"] = ast.NewLiteralNode(u.user, zeroPos)
	}
	if u.hasPassword {
		props["password"] = ast.NewLiteralNode(u.password, zeroPos)
	}
	if u.port != 0 {
		props["port"] = ast.NewLiteralNode(int64(u.port), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// NodeToUri builds a Uri from an AST ObjectNode, validating every component.
func NodeToUri(node ast.SchemaNode) (*Uri, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, newError(ErrInvalidArgument, "expected ObjectNode, got %T", node)
	}

	u := NewUri()
	var err error
	if s, ok := parser.StringProperty(obj, "scheme"); ok {
		if u, err = u.WithScheme(s); err != nil {
			return nil, err
		}
	}
	if user, ok := parser.StringProperty(obj, "user"); ok {
		password, _ := parser.StringProperty(obj, "password")
		u = u.WithUserInfo(user, password)
	}
	if h, ok := parser.StringProperty(obj, "host"); ok {
		if u, err = u.WithHost(h); err != nil {
			return nil, err
		}
	}
	if _, present := obj.Properties()["port"]; present {
		p, ok := parser.IntProperty(obj, "port")
		if !ok {
			return nil, newError(ErrInvalidArgument, "port is not an integer")
		}
		if u, err = u.WithPort(p); err != nil {
			return nil, err
		}
	}
	if p, ok := parser.StringProperty(obj, "path"); ok && p != "" {
		if u, err = u.WithPath(p); err != nil {
			return nil, err
		}
	}
	if q, ok := parser.StringProperty(obj, "query"); ok {
		u = u.WithQuery(q)
	}
	if f, ok := parser.StringProperty(obj, "fragment"); ok {
		u = u.WithFragment(f)
	}
	return u, nil
}
