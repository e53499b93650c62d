package httpmsg

import (
	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-httpmsg/internal/parser"
)

var zeroPos = ast.Position{}

// RequestToNode converts a Request to an AST ObjectNode:
//
//	{ "type": "request", "method": "GET", "version": "1.1",
//	  "target": "/explicit",            // only when set explicitly
//	  "uri": { ... },                   // only when a URI is set
//	  "headers": [{"key": "Host", "values": ["example.com"]}, ...],
//	  "body": "..." }                   // only when a body is set
//
// The body stream is read from the start when seekable.
func RequestToNode(r *Request) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":    ast.NewLiteralNode("request", zeroPos),
		"method":  ast.NewLiteralNode(r.method, zeroPos),
		"version": ast.NewLiteralNode(r.ProtocolVersion(), zeroPos),
		"headers": headersToNode(r.headers),
	}
	if r.hasTarget {
		props["target"] = ast.NewLiteralNode(r.target, zeroPos)
	}
	if r.uri != nil {
		props["uri"] = UriToNode(r.uri)
	}
	if r.body != nil {
		props["body"] = ast.NewLiteralNode(r.body.String(), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// ResponseToNode converts a Response to an AST ObjectNode.
func ResponseToNode(r *Response) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":       ast.NewLiteralNode("response", zeroPos),
		"version":    ast.NewLiteralNode(r.ProtocolVersion(), zeroPos),
		"statusCode": ast.NewLiteralNode(int64(r.StatusCode()), zeroPos),
		"reason":     ast.NewLiteralNode(r.ReasonPhrase(), zeroPos),
		"headers":    headersToNode(r.headers),
	}
	if r.body != nil {
		props["body"] = ast.NewLiteralNode(r.body.String(), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// NodeToRequest rebuilds a Request from an AST ObjectNode. Every field goes
// through its validating With* method.
func NodeToRequest(node ast.SchemaNode) (*Request, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, newError(ErrInvalidArgument, "expected ObjectNode, got %T", node)
	}
	props := obj.Properties()

	req := NewRequest()
	var err error
	if m, ok := parser.StringProperty(obj, "method"); ok && m != "" {
		if req, err = req.WithMethod(m); err != nil {
			return nil, err
		}
	}
	if v, ok := parser.StringProperty(obj, "version"); ok && v != "" {
		if req, err = req.WithProtocolVersion(v); err != nil {
			return nil, err
		}
	}
	if t, ok := parser.StringProperty(obj, "target"); ok {
		req = req.WithRequestTarget(t)
	}
	if u, ok := props["uri"]; ok {
		uri, err := NodeToUri(u)
		if err != nil {
			return nil, err
		}
		req = req.WithUri(uri)
	}
	if h, ok := props["headers"]; ok {
		headers, err := nodeToHeaders(h)
		if err != nil {
			return nil, err
		}
		for _, hdr := range headers {
			if req, err = req.WithAddedHeader(hdr.Key, hdr.Values...); err != nil {
				return nil, err
			}
		}
	}
	if b, ok := parser.StringProperty(obj, "body"); ok {
		if req, err = req.WithBody(stringStream(b)); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// NodeToResponse rebuilds a Response from an AST ObjectNode.
func NodeToResponse(node ast.SchemaNode) (*Response, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, newError(ErrInvalidArgument, "expected ObjectNode, got %T", node)
	}

	resp := NewResponse()
	var err error
	if v, ok := parser.StringProperty(obj, "version"); ok && v != "" {
		if resp, err = resp.WithProtocolVersion(v); err != nil {
			return nil, err
		}
	}
	if code, ok := parser.IntProperty(obj, "statusCode"); ok {
		if reason, ok := parser.StringProperty(obj, "reason"); ok {
			resp, err = resp.WithStatus(code, reason)
		} else {
			resp, err = resp.WithStatus(code)
		}
		if err != nil {
			return nil, err
		}
	}
	if h, ok := obj.Properties()["headers"]; ok {
		headers, err := nodeToHeaders(h)
		if err != nil {
			return nil, err
		}
		for _, hdr := range headers {
			if resp, err = resp.WithAddedHeader(hdr.Key, hdr.Values...); err != nil {
				return nil, err
			}
		}
	}
	if b, ok := parser.StringProperty(obj, "body"); ok {
		if resp, err = resp.WithBody(stringStream(b)); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// NodeToInterface converts an AST node to native Go types.
func NodeToInterface(node ast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return n.Value()
	case *ast.ArrayDataNode:
		elements := n.Elements()
		arr := make([]interface{}, len(elements))
		for i, elem := range elements {
			arr[i] = NodeToInterface(elem)
		}
		return arr
	case *ast.ObjectNode:
		props := n.Properties()
		m := make(map[string]interface{}, len(props))
		for k, v := range props {
			m[k] = NodeToInterface(v)
		}
		return m
	default:
		return nil
	}
}

func headersToNode(headers Headers) ast.SchemaNode {
	elements := make([]ast.SchemaNode, len(headers))
	for i, h := range headers {
		values := make([]ast.SchemaNode, len(h.Values))
		for j, v := range h.Values {
			values[j] = ast.NewLiteralNode(v, zeroPos)
		}
		elements[i] = ast.NewObjectNode(map[string]ast.SchemaNode{
			"key":    ast.NewLiteralNode(h.Key, zeroPos),
			"values": ast.NewArrayDataNode(values, zeroPos),
		}, zeroPos)
	}
	return ast.NewArrayDataNode(elements, zeroPos)
}

// nodeToHeaders accepts entries with a "values" array or a single "value".
func nodeToHeaders(node ast.SchemaNode) (Headers, error) {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, newError(ErrInvalidArgument, "expected ArrayDataNode for headers, got %T", node)
	}
	elements := arr.Elements()
	headers := make(Headers, 0, len(elements))
	for _, elem := range elements {
		obj, ok := elem.(*ast.ObjectNode)
		if !ok {
			continue
		}
		var h Header
		h.Key, _ = parser.StringProperty(obj, "key")
		if v, ok := parser.StringProperty(obj, "value"); ok {
			h.Values = append(h.Values, v)
		}
		if vs, ok := obj.Properties()["values"].(*ast.ArrayDataNode); ok {
			for _, e := range vs.Elements() {
				lit, ok := e.(*ast.LiteralNode)
				if !ok {
					return nil, newError(ErrInvalidArgument, "header %q has a non-literal value", h.Key)
				}
				s, ok := lit.Value().(string)
				if !ok {
					return nil, newError(ErrInvalidArgument, "header %q has a non-string value %v", h.Key, lit.Value())
				}
				h.Values = append(h.Values, s)
			}
		}
		headers = append(headers, h)
	}
	return headers, nil
}

// stringStream returns a rewound temp stream holding s.
func stringStream(s string) Stream {
	st := NewTempStream()
	// in-memory writes and seeks cannot fail
	_, _ = st.Write([]byte(s))
	_ = st.Rewind()
	return st
}
