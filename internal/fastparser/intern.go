package fastparser

// table maps the byte spelling of a common token to one shared string.
// Lookups with a string([]byte) key do not allocate, so tokens found in
// the table cost nothing; unknown tokens are copied.
type table map[string]string

func newTable(words ...string) table {
	t := make(table, len(words))
	for _, w := range words {
		t[w] = w
	}
	return t
}

func (t table) intern(b []byte) string {
	if s, ok := t[string(b)]; ok {
		return s
	}
	return string(b)
}

var methods = newTable(
	"GET", "HEAD", "POST", "PUT", "DELETE",
	"CONNECT", "OPTIONS", "TRACE", "PATCH", "PROPFIND",
)

var versions = newTable("HTTP/1.0", "HTTP/1.1", "HTTP/2", "HTTP/2.0")

// headerNames holds the request headers a server environment commonly
// carries, including the ones mapped to CONTENT_* variables.
var headerNames = newTable(
	"Accept", "Accept-Charset", "Accept-Encoding", "Accept-Language",
	"Authorization", "Cache-Control", "Connection",
	"Content-Encoding", "Content-Language", "Content-Length", "Content-MD5", "Content-Type",
	"Cookie", "Date", "DNT", "Expect", "Forwarded", "From", "Host",
	"If-Match", "If-Modified-Since", "If-None-Match", "If-Range", "If-Unmodified-Since",
	"Max-Forwards", "Origin", "Pragma", "Proxy-Authorization", "Range", "Referer",
	"TE", "Trailer", "Transfer-Encoding", "Upgrade", "Upgrade-Insecure-Requests",
	"User-Agent", "Via", "X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto",
	"X-Real-IP", "X-Request-ID", "X-Requested-With",
)

func internMethod(b []byte) string     { return methods.intern(b) }
func internVersion(b []byte) string    { return versions.intern(b) }
func internHeaderName(b []byte) string { return headerNames.intern(b) }
