package environ

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shapestone/shape-httpmsg/pkg/httpmsg"
	"github.com/valyala/fasthttp"
)

func TestServerKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Host", "HTTP_HOST"},
		{"X-Forwarded-For", "HTTP_X_FORWARDED_FOR"},
		{"Content-Type", "CONTENT_TYPE"},
		{"content-length", "CONTENT_LENGTH"},
		{"Content-MD5", "HTTP_CONTENT_MD5"},
	}
	for _, tt := range tests {
		if got := serverKey(tt.name); got != tt.want {
			t.Errorf("serverKey(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSetHost(t *testing.T) {
	tests := []struct {
		host     string
		tls      bool
		wantName string
		wantPort string
	}{
		{"example.com", false, "example.com", "80"},
		{"example.com", true, "example.com", "443"},
		{"example.com:8080", false, "example.com", "8080"},
		{"", false, "", "80"},
	}
	for _, tt := range tests {
		server := map[string]string{}
		setHost(server, tt.host, tt.tls)
		if server["SERVER_NAME"] != tt.wantName || server["SERVER_PORT"] != tt.wantPort {
			t.Errorf("setHost(%q, %v) = %q:%q, want %q:%q", tt.host, tt.tls,
				server["SERVER_NAME"], server["SERVER_PORT"], tt.wantName, tt.wantPort)
		}
	}
}

func TestParseCookies(t *testing.T) {
	got := parseCookies("a=1; b=2; a=3")
	if got["a"] != "1" || got["b"] != "2" || len(got) != 2 {
		t.Errorf("parseCookies() = %v, want map[a:1 b:2]", got)
	}
	if got := parseCookies(""); len(got) != 0 {
		t.Errorf("parseCookies(\"\") = %v, want empty", got)
	}
}

func TestFromCGI(t *testing.T) {
	env := FromCGI([]string{
		"REQUEST_METHOD=POST",
		"REQUEST_URI=/submit?x=1",
		"QUERY_STRING=x=1&x=2&y=a%20b",
		"SERVER_NAME=example.com",
		"SERVER_PORT=8080",
		"HTTP_COOKIE=session=abc",
		"CONTENT_TYPE=application/x-www-form-urlencoded",
		"BROKEN",
		"EMPTY=",
	}, strings.NewReader("name=gopher"))

	if got := env.Server["REQUEST_METHOD"]; got != "POST" {
		t.Errorf("Server[REQUEST_METHOD] = %q, want %q", got, "POST")
	}
	if _, ok := env.Server["BROKEN"]; ok {
		t.Error("entry without '=' should be skipped")
	}
	if v, ok := env.Server["EMPTY"]; !ok || v != "" {
		t.Errorf("Server[EMPTY] = %q, %v, want empty and present", v, ok)
	}
	if got := env.Query["x"]; got != "1" {
		t.Errorf("Query[x] = %q, want %q", got, "1")
	}
	if got := env.Query["y"]; got != "a b" {
		t.Errorf("Query[y] = %q, want %q", got, "a b")
	}
	if got := env.Cookies["session"]; got != "abc" {
		t.Errorf("Cookies[session] = %q, want %q", got, "abc")
	}

	sr, err := httpmsg.NewServerRequest(env)
	if err != nil {
		t.Fatalf("NewServerRequest() error = %v", err)
	}
	if got := sr.Uri().String(); got != "http://example.com:8080/submit?x=1&x=2&y=a%20b" {
		t.Errorf("Uri() = %q", got)
	}
	if got := sr.Param(httpmsg.PostBag, "name", nil); got != "gopher" {
		t.Errorf("Param(PostBag, name) = %v, want gopher", got)
	}
}

func TestFromHTTP(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/form?a=1&a=2", strings.NewReader("name=gopher&lang=go"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Add("Accept", "text/html")
	r.Header.Add("Accept", "application/json")
	r.Header.Set("Authorization", "Bearer token")
	r.AddCookie(&http.Cookie{Name: "session", Value: "abc"})

	env, err := FromHTTP(r)
	if err != nil {
		t.Fatalf("FromHTTP() error = %v", err)
	}

	wantServer := map[string]string{
		"REQUEST_METHOD":     "POST",
		"REQUEST_URI":        "/form?a=1&a=2",
		"QUERY_STRING":       "a=1&a=2",
		"SERVER_PROTOCOL":    "HTTP/1.1",
		"SERVER_NAME":        "example.com",
		"SERVER_PORT":        "80",
		"REQUEST_SCHEME":     "http",
		"CONTENT_TYPE":       "application/x-www-form-urlencoded",
		"HTTP_ACCEPT":        "text/html, application/json",
		"HTTP_AUTHORIZATION": "Bearer token",
	}
	for k, want := range wantServer {
		if got := env.Server[k]; got != want {
			t.Errorf("Server[%s] = %q, want %q", k, got, want)
		}
	}
	if got := env.Query["a"]; got != "1" {
		t.Errorf("Query[a] = %q, want %q", got, "1")
	}
	if got := env.Cookies["session"]; got != "abc" {
		t.Errorf("Cookies[session] = %q, want %q", got, "abc")
	}
	if got := env.HeadersFunc()["Authorization"]; got != "Bearer token" {
		t.Errorf("HeadersFunc()[Authorization] = %q, want %q", got, "Bearer token")
	}

	sr, err := httpmsg.NewServerRequest(env)
	if err != nil {
		t.Fatalf("NewServerRequest() error = %v", err)
	}
	if got := sr.Method(); got != "POST" {
		t.Errorf("Method() = %q, want POST", got)
	}
	if got, err := sr.HeaderLines("Accept"); err != nil || len(got) != 2 {
		t.Errorf("HeaderLines(Accept) = %v, %v, want 2 values", got, err)
	}
	if got := sr.Uri().Path(); got != "/form" {
		t.Errorf("Uri().Path() = %q, want %q", got, "/form")
	}
	if got := sr.Param(httpmsg.PostBag, "lang", ""); got != "go" {
		t.Errorf("Param(PostBag, lang) = %v, want go", got)
	}
}

func TestFromHTTP_TLS(t *testing.T) {
	r := httptest.NewRequest("GET", "https://secure.example.com/", nil)
	env, err := FromHTTP(r)
	if err != nil {
		t.Fatalf("FromHTTP() error = %v", err)
	}
	if env.Server["HTTPS"] != "on" || env.Server["SERVER_PORT"] != "443" {
		t.Errorf("HTTPS = %q, SERVER_PORT = %q, want on and 443", env.Server["HTTPS"], env.Server["SERVER_PORT"])
	}
	sr, err := httpmsg.NewServerRequest(env)
	if err != nil {
		t.Fatalf("NewServerRequest() error = %v", err)
	}
	if got := sr.Uri().String(); got != "https://secure.example.com" {
		t.Errorf("Uri() = %q, want %q", got, "https://secure.example.com")
	}
}

func TestFromHTTP_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("avatar", "gopher.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("PNGDATA")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest("POST", "/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	env, err := FromHTTP(r)
	if err != nil {
		t.Fatalf("FromHTTP() error = %v", err)
	}
	if env.Input != nil {
		t.Error("Input should be empty after multipart parsing")
	}
	files := env.Files["avatar"]
	if len(files) != 1 {
		t.Fatalf("Files[avatar] has %d entries, want 1", len(files))
	}
	if files[0].Name != "gopher.png" || files[0].Size != 7 {
		t.Errorf("Files[avatar][0] = %+v, want gopher.png with 7 bytes", files[0])
	}
}

func TestWriteHTTP(t *testing.T) {
	resp, err := httpmsg.NewResponse().WithStatus(201)
	if err != nil {
		t.Fatal(err)
	}
	if resp, err = resp.WithHeader("X-Id", "1", "2"); err != nil {
		t.Fatal(err)
	}
	body := httpmsg.NewTempStream()
	if _, err := body.Write([]byte("created")); err != nil {
		t.Fatal(err)
	}
	if resp, err = resp.WithBody(body); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	if err := WriteHTTP(rec, resp); err != nil {
		t.Fatalf("WriteHTTP() error = %v", err)
	}
	if rec.Code != 201 {
		t.Errorf("Code = %d, want 201", rec.Code)
	}
	if got := rec.Header().Values("X-Id"); len(got) != 2 {
		t.Errorf("X-Id = %v, want 2 values", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "7" {
		t.Errorf("Content-Length = %q, want %q", got, "7")
	}
	if got := rec.Body.String(); got != "created" {
		t.Errorf("Body = %q, want %q", got, "created")
	}
	if err := WriteHTTP(rec, nil); err == nil {
		t.Error("WriteHTTP(nil) should fail")
	}
}

func newFastCtx(method, uri, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.SetHost("example.com:8080")
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return ctx
}

func TestFromFastHTTP(t *testing.T) {
	ctx := newFastCtx("POST", "/api/items?page=2&page=3", `{"name":"gopher"}`)
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.Header.Set("X-Request-Id", "r-1")
	ctx.Request.Header.Set("Cookie", "theme=dark")

	env := FromFastHTTP(ctx)

	wantServer := map[string]string{
		"REQUEST_METHOD":    "POST",
		"REQUEST_URI":       "/api/items?page=2&page=3",
		"QUERY_STRING":      "page=2&page=3",
		"SERVER_PROTOCOL":   "HTTP/1.1",
		"SERVER_NAME":       "example.com",
		"SERVER_PORT":       "8080",
		"REQUEST_SCHEME":    "http",
		"CONTENT_TYPE":      "application/json",
		"HTTP_X_REQUEST_ID": "r-1",
	}
	for k, want := range wantServer {
		if got := env.Server[k]; got != want {
			t.Errorf("Server[%s] = %q, want %q", k, got, want)
		}
	}
	if got := env.Query["page"]; got != "2" {
		t.Errorf("Query[page] = %q, want %q", got, "2")
	}
	if got := env.Cookies["theme"]; got != "dark" {
		t.Errorf("Cookies[theme] = %q, want %q", got, "dark")
	}

	// the body must survive a ctx reset
	ctx.Request.Reset()
	data, err := io.ReadAll(env.Input)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"gopher"}` {
		t.Errorf("Input = %q", data)
	}
}

func TestFromFastHTTP_ServerRequest(t *testing.T) {
	ctx := newFastCtx("PUT", "/items/7", `{"name":"gopher"}`)
	ctx.Request.Header.SetContentType("application/json")

	factory := httpmsg.NewParserFactory()
	factory.Register(httpmsg.ContentTypeJSON, httpmsg.JSONParser{})

	sr, err := httpmsg.NewServerRequest(FromFastHTTP(ctx), httpmsg.WithParserFactory(factory))
	if err != nil {
		t.Fatalf("NewServerRequest() error = %v", err)
	}
	if got := sr.RequestTarget(); got != "/items/7" {
		t.Errorf("RequestTarget() = %q, want %q", got, "/items/7")
	}
	if got := sr.Param(httpmsg.PostBag, "name", nil); got != "gopher" {
		t.Errorf("Param(PostBag, name) = %v, want gopher", got)
	}
	if got := sr.Uri().Port(); got != 8080 {
		t.Errorf("Uri().Port() = %d, want 8080", got)
	}
}

func TestWriteFastHTTP(t *testing.T) {
	resp, err := httpmsg.NewResponse().WithStatus(404, "Gone Fishing")
	if err != nil {
		t.Fatal(err)
	}
	if resp, err = resp.WithHeader("Content-Type", "text/plain"); err != nil {
		t.Fatal(err)
	}
	body := httpmsg.NewTempStream()
	if _, err := body.Write([]byte("nothing here")); err != nil {
		t.Fatal(err)
	}
	if resp, err = resp.WithBody(body); err != nil {
		t.Fatal(err)
	}

	ctx := &fasthttp.RequestCtx{}
	if err := WriteFastHTTP(ctx, resp); err != nil {
		t.Fatalf("WriteFastHTTP() error = %v", err)
	}
	if got := ctx.Response.StatusCode(); got != 404 {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
	if got := string(ctx.Response.Header.ContentType()); got != "text/plain" {
		t.Errorf("Content-Type = %q, want %q", got, "text/plain")
	}
	if got := string(ctx.Response.Body()); got != "nothing here" {
		t.Errorf("Body() = %q, want %q", got, "nothing here")
	}
}

func TestFromWire(t *testing.T) {
	raw := "POST /login?next=%2Fhome HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Cookie: sid=42\r\n" +
		"Cookie: theme=dark\r\n" +
		"Content-Type: application/x-www-form-urlencoded\r\n" +
		"Content-Length: 9\r\n" +
		"\r\n" +
		"user=anna"

	env, err := FromWire([]byte(raw))
	if err != nil {
		t.Fatalf("FromWire() error = %v", err)
	}
	if got := env.Query["next"]; got != "/home" {
		t.Errorf("Query[next] = %q, want %q", got, "/home")
	}
	if got := env.Cookies["sid"]; got != "42" {
		t.Errorf("Cookies[sid] = %q, want %q", got, "42")
	}
	if got := env.Cookies["theme"]; got != "dark" {
		t.Errorf("Cookies[theme] = %q, want %q", got, "dark")
	}

	sr, err := httpmsg.NewServerRequest(env)
	if err != nil {
		t.Fatalf("NewServerRequest() error = %v", err)
	}
	if got := sr.ProtocolVersion(); got != "1.1" {
		t.Errorf("ProtocolVersion() = %q, want %q", got, "1.1")
	}
	if got := sr.Param(httpmsg.PostBag, "user", ""); got != "anna" {
		t.Errorf("Param(PostBag, user) = %v, want anna", got)
	}
	if got := sr.RequestTarget(); got != "/login?next=%2Fhome" {
		t.Errorf("RequestTarget() = %q", got)
	}
}

func TestFromWire_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"GET /\r\n\r\n",
		"POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n",
	}
	for _, in := range inputs {
		if _, err := FromWire([]byte(in)); err == nil {
			t.Errorf("FromWire(%q) error = nil, want error", in)
		}
	}
}
