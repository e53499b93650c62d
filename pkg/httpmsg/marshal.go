package httpmsg

import (
	"fmt"
	"strconv"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/valyala/bytebufferpool"
)

// Marshaler is the interface implemented by types that can marshal themselves
// into HTTP/1.x wire format.
type Marshaler interface {
	MarshalHTTP() ([]byte, error)
}

// Marshal returns the HTTP/1.x wire-format encoding of v.
//
// v must be a *Request, *ServerRequest or *Response, or implement Marshaler.
// Request headers include the synthesized Host entry. Each header value is
// written on its own line. When the body has a known size and no
// Content-Length header is set, Content-Length is added.
func Marshal(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("httpmsg: Marshal(nil)")
	}
	if m, ok := v.(Marshaler); ok {
		return m.MarshalHTTP()
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	var err error
	switch msg := v.(type) {
	case *Request:
		bb.B, err = appendRequest(bb.B, msg)
	case *ServerRequest:
		bb.B, err = appendRequest(bb.B, &msg.Request)
	case *Response:
		bb.B, err = appendResponse(bb.B, msg)
	default:
		return nil, fmt.Errorf("httpmsg: Marshal unsupported type %T (expected *Request, *ServerRequest or *Response)", v)
	}
	if err != nil {
		return nil, err
	}

	result := make([]byte, len(bb.B))
	copy(result, bb.B)
	return result, nil
}

// Render converts an AST node from RequestToNode or ResponseToNode into
// wire format bytes.
func Render(node ast.SchemaNode) ([]byte, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("httpmsg: Render: expected ObjectNode, got %T", node)
	}
	typeLit, ok := obj.Properties()["type"].(*ast.LiteralNode)
	if !ok {
		return nil, fmt.Errorf("httpmsg: Render: missing 'type' property")
	}
	msgType, ok := typeLit.Value().(string)
	if !ok {
		return nil, fmt.Errorf("httpmsg: Render: 'type' is not a string")
	}

	switch msgType {
	case "request":
		req, err := NodeToRequest(node)
		if err != nil {
			return nil, fmt.Errorf("httpmsg: Render: %w", err)
		}
		return Marshal(req)
	case "response":
		resp, err := NodeToResponse(node)
		if err != nil {
			return nil, fmt.Errorf("httpmsg: Render: %w", err)
		}
		return Marshal(resp)
	default:
		return nil, fmt.Errorf("httpmsg: Render: unknown message type %q", msgType)
	}
}

func appendRequest(buf []byte, r *Request) ([]byte, error) {
	if r.method == "" {
		return nil, newError(ErrInvalidArgument, "request method is empty")
	}
	buf = append(buf, r.method...)
	buf = append(buf, ' ')
	buf = append(buf, r.RequestTarget()...)
	buf = append(buf, " HTTP/"...)
	buf = append(buf, r.ProtocolVersion()...)
	buf = appendCRLF(buf)
	return appendHeadersAndBody(buf, r.Headers(), r.body)
}

func appendResponse(buf []byte, r *Response) ([]byte, error) {
	buf = append(buf, r.RenderStatusLine()...)
	buf = appendCRLF(buf)
	return appendHeadersAndBody(buf, r.headers, r.body)
}

func appendHeadersAndBody(buf []byte, headers Headers, body Stream) ([]byte, error) {
	buf = appendHeaders(buf, headers)

	var content string
	if body != nil {
		c, err := body.Contents()
		if err != nil {
			return nil, wrapError(ErrInvalidArgument, err, "cannot read body")
		}
		content = c
	}
	if content != "" && !headers.Has("Content-Length") && !headers.Has("Transfer-Encoding") {
		buf = append(buf, "Content-Length: "...)
		buf = strconv.AppendInt(buf, int64(len(content)), 10)
		buf = appendCRLF(buf)
	}

	buf = appendCRLF(buf)
	return append(buf, content...), nil
}

// appendHeaders writes one "Key: Value\r\n" line per value.
func appendHeaders(buf []byte, headers Headers) []byte {
	for _, h := range headers {
		for _, v := range h.Values {
			buf = append(buf, h.Key...)
			buf = append(buf, ':', ' ')
			buf = append(buf, v...)
			buf = appendCRLF(buf)
		}
	}
	return buf
}

func appendCRLF(buf []byte) []byte {
	return append(buf, '\r', '\n')
}
