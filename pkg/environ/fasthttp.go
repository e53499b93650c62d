package environ

import (
	"bytes"
	"errors"

	"github.com/shapestone/shape-httpmsg/pkg/httpmsg"
	"github.com/valyala/fasthttp"
)

// FromFastHTTP builds an Environment from a fasthttp request context. The
// body is copied, so the Environment outlives ctx.
func FromFastHTTP(ctx *fasthttp.RequestCtx) *httpmsg.Environment {
	tls := ctx.IsTLS()
	proto := "HTTP/1.1"
	if !ctx.Request.Header.IsHTTP11() {
		proto = "HTTP/1.0"
	}
	server := map[string]string{
		"REQUEST_METHOD":  string(ctx.Method()),
		"REQUEST_URI":     string(ctx.RequestURI()),
		"QUERY_STRING":    string(ctx.URI().QueryString()),
		"SERVER_PROTOCOL": proto,
		"REMOTE_ADDR":     ctx.RemoteAddr().String(),
	}
	setHost(server, string(ctx.Host()), tls)
	setScheme(server, tls)

	raw := map[string]string{}
	ctx.Request.Header.VisitAll(func(key, value []byte) {
		name := string(key)
		addHeader(server, name, string(value))
		if _, ok := raw[name]; !ok {
			raw[name] = string(value)
		}
	})

	query := map[string]string{}
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		if _, ok := query[string(key)]; !ok {
			query[string(key)] = string(value)
		}
	})

	env := &httpmsg.Environment{
		Server:      server,
		Cookies:     parseCookies(server["HTTP_COOKIE"]),
		Query:       query,
		Files:       map[string][]httpmsg.UploadedFile{},
		HeadersFunc: headerFunc(raw),
	}

	if form, err := ctx.MultipartForm(); err == nil {
		for field, headers := range form.File {
			for _, fh := range headers {
				env.Files[field] = append(env.Files[field], httpmsg.UploadedFile{
					Name: fh.Filename,
					Type: fh.Header.Get("Content-Type"),
					Size: fh.Size,
				})
			}
		}
		return env
	}
	env.Input = bytes.NewReader(append([]byte(nil), ctx.PostBody()...))
	return env
}

// WriteFastHTTP writes resp to ctx. fasthttp sets Content-Length itself.
func WriteFastHTTP(ctx *fasthttp.RequestCtx, resp *httpmsg.Response) error {
	if resp == nil {
		return errors.New("environ: WriteFastHTTP(nil)")
	}
	ctx.SetStatusCode(resp.StatusCode())
	for _, hdr := range resp.Headers() {
		if hdr.Key == "Content-Length" {
			continue
		}
		for _, v := range hdr.Values {
			ctx.Response.Header.Add(hdr.Key, v)
		}
	}
	content, err := bodyContents(resp)
	if err != nil {
		return err
	}
	ctx.SetBodyString(content)
	return nil
}
