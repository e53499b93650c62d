// Package parser implements an AST parser for absolute and origin-form URIs.
// It produces shape-core AST nodes from the token stream of the URI tokenizer.
//
// A URI is mapped to an ObjectNode with the following structure:
//
//	{ "scheme": "http", "user": "user", "password": "pass",
//	  "host": "example.com", "port": 8080, "path": "/a/b",
//	  "query": "q=1", "fragment": "top" }
//
// Components that are absent from the input are omitted from the node,
// except "path", "query" and "fragment" which are always present.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	coretok "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-httpmsg/internal/tokenizer"
)

var zeroPos = ast.Position{}

// Parser produces an AST node from a URI string.
type Parser struct {
	input  string
	tokens []coretok.Token
	pos    int
}

// NewParser creates a new URI parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Parse decomposes the URI and returns an AST ObjectNode.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	if strings.ContainsAny(p.input, " \t\r\n") {
		return nil, fmt.Errorf("uri %q contains whitespace", p.input)
	}

	tok := tokenizer.NewTokenizer()
	tok.Initialize(p.input)
	tokens, eos := tok.Tokenize()
	if !eos {
		return nil, fmt.Errorf("uri %q: unexpected input after %d tokens", p.input, len(tokens))
	}
	p.tokens = tokens
	p.pos = 0

	props := make(map[string]ast.SchemaNode, 8)

	if p.peekKind(0) == tokenizer.TokenText && p.peekKind(1) == tokenizer.TokenSchemeSep {
		props["scheme"] = ast.NewLiteralNode(p.tokens[0].ValueString(), zeroPos)
		p.pos = 2
		if err := p.parseAuthority(props); err != nil {
			return nil, err
		}
	} else if p.peekKind(0) == tokenizer.TokenSchemeSep {
		return nil, fmt.Errorf("uri %q: missing scheme", p.input)
	}

	path := p.collect(tokenizer.TokenQuestion, tokenizer.TokenHash)
	query := ""
	if p.peekKind(0) == tokenizer.TokenQuestion {
		p.pos++
		query = p.collect(tokenizer.TokenHash)
	}
	fragment := ""
	if p.peekKind(0) == tokenizer.TokenHash {
		p.pos++
		fragment = p.collect()
	}

	props["path"] = ast.NewLiteralNode(path, zeroPos)
	props["query"] = ast.NewLiteralNode(query, zeroPos)
	props["fragment"] = ast.NewLiteralNode(fragment, zeroPos)

	return ast.NewObjectNode(props, zeroPos), nil
}

// parseAuthority consumes [userinfo@]host[:port] up to the first slash,
// question mark or hash.
func (p *Parser) parseAuthority(props map[string]ast.SchemaNode) error {
	start := p.pos
	end := start
	at := -1
	for end < len(p.tokens) {
		k := p.tokens[end].Kind()
		if k == tokenizer.TokenSlash || k == tokenizer.TokenQuestion || k == tokenizer.TokenHash {
			break
		}
		if k == tokenizer.TokenAt {
			at = end
		}
		end++
	}
	p.pos = end

	hostStart := start
	if at >= 0 {
		userinfo := joinTokens(p.tokens[start:at])
		user, password, hasPassword := strings.Cut(userinfo, ":")
		props["user"] = ast.NewLiteralNode(user, zeroPos)
		if hasPassword {
			props["password"] = ast.NewLiteralNode(password, zeroPos)
		}
		hostStart = at + 1
	}

	hostport := joinTokens(p.tokens[hostStart:end])
	host, port, hasPort := strings.Cut(hostport, ":")
	if host == "" {
		return fmt.Errorf("uri %q: missing host", p.input)
	}
	props["host"] = ast.NewLiteralNode(host, zeroPos)

	if hasPort {
		n, err := strconv.Atoi(port)
		if err != nil || n < 0 {
			return fmt.Errorf("uri %q: invalid port %q", p.input, port)
		}
		props["port"] = ast.NewLiteralNode(int64(n), zeroPos)
	}
	return nil
}

// collect concatenates token values until one of the stop kinds or the end.
func (p *Parser) collect(stop ...string) string {
	var b strings.Builder
	for p.pos < len(p.tokens) {
		k := p.tokens[p.pos].Kind()
		for _, s := range stop {
			if k == s {
				return b.String()
			}
		}
		b.WriteString(p.tokens[p.pos].ValueString())
		p.pos++
	}
	return b.String()
}

func (p *Parser) peekKind(offset int) string {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return ""
	}
	return p.tokens[i].Kind()
}

func joinTokens(tokens []coretok.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.ValueString())
	}
	return b.String()
}

// StringProperty returns the string literal stored under key, if any.
func StringProperty(obj *ast.ObjectNode, key string) (string, bool) {
	v, ok := obj.Properties()[key]
	if !ok {
		return "", false
	}
	lit, ok := v.(*ast.LiteralNode)
	if !ok {
		return "", false
	}
	s, ok := lit.Value().(string)
	return s, ok
}

// IntProperty returns the integer literal stored under key, if any.
// Float and numeric string literals are accepted as well.
func IntProperty(obj *ast.ObjectNode, key string) (int, bool) {
	v, ok := obj.Properties()[key]
	if !ok {
		return 0, false
	}
	lit, ok := v.(*ast.LiteralNode)
	if !ok {
		return 0, false
	}
	switch n := lit.Value().(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
