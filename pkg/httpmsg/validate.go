package httpmsg

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// ValidatorFunc reports whether value satisfies a validation rule.
type ValidatorFunc func(value interface{}) bool

// Validator names accepted by IsValid.
const (
	ValidatorHostName        = "hostname"
	ValidatorURL             = "url"
	ValidatorHTTPMethod      = "httpMethod"
	ValidatorHeaderName      = "headerName"
	ValidatorHeaderValue     = "headerValue"
	ValidatorKeyValueArray   = "keyValueArray"
	ValidatorStatusCode      = "statusCode"
	ValidatorProtocolVersion = "protocolVersion"
)

var validators = map[string]ValidatorFunc{
	ValidatorHostName:        IsHostName,
	ValidatorURL:             IsURL,
	ValidatorHTTPMethod:      IsHTTPMethod,
	ValidatorHeaderName:      IsHeaderName,
	ValidatorHeaderValue:     IsHeaderValue,
	ValidatorKeyValueArray:   IsKeyValueArray,
	ValidatorStatusCode:      IsStatusCode,
	ValidatorProtocolVersion: IsProtocolVersion,
}

// IsValid checks value against the validator registered under name.
// An unknown validator name is an ErrInvalidArgument failure.
func IsValid(name string, value interface{}) (bool, error) {
	v, ok := validators[name]
	if !ok {
		return false, newError(ErrInvalidArgument, "unknown validator %q", name)
	}
	return v(value), nil
}

var hostLabels = regexp.MustCompile(`^(?i)[a-z\d](-*[a-z\d])*(\.[a-z\d](-*[a-z\d])*)*$`)

// IsHostName reports whether value is a syntactically valid host name:
// at most 253 characters, dot-separated labels of 1 to 63 alphanumerics
// with inner hyphens.
func IsHostName(value interface{}) bool {
	s, ok := value.(string)
	if !ok || len(s) == 0 || len(s) > 253 {
		return false
	}
	if !hostLabels.MatchString(s) {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if len(label) > 63 {
			return false
		}
	}
	return true
}

// IsURL reports whether value is an absolute URL with a scheme and a host.
func IsURL(value interface{}) bool {
	s, ok := value.(string)
	if !ok || s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsHTTPMethod reports whether value names a known request method,
// compared case-insensitively.
func IsHTTPMethod(value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	_, known := requestMethods[strings.ToUpper(s)]
	return known
}

// IsHeaderName reports whether value is an RFC 7230 token.
func IsHeaderName(value interface{}) bool {
	s, ok := value.(string)
	if !ok || s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// IsHeaderValue reports whether value is a string or a non-empty slice of
// strings, none of which contains CR or LF.
func IsHeaderValue(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return !strings.ContainsAny(v, "\r\n")
	case []string:
		if len(v) == 0 {
			return false
		}
		for _, s := range v {
			if strings.ContainsAny(s, "\r\n") {
				return false
			}
		}
		return true
	}
	return false
}

// IsKeyValueArray reports whether value is a flat map from string keys to
// string values. map[string]interface{} qualifies when every value is a string.
func IsKeyValueArray(value interface{}) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return false
	}
	if rv.Type().Elem().Kind() == reflect.String {
		return true
	}
	if rv.Type().Elem().Kind() != reflect.Interface {
		return false
	}
	iter := rv.MapRange()
	for iter.Next() {
		if _, ok := iter.Value().Interface().(string); !ok {
			return false
		}
	}
	return true
}

// IsStatusCode reports whether value is an integer present in the
// recommended reason phrase table.
func IsStatusCode(value interface{}) bool {
	var code int
	switch v := value.(type) {
	case int:
		code = v
	case int32:
		code = int(v)
	case int64:
		code = int(v)
	default:
		return false
	}
	_, ok := reasonPhrases[code]
	return ok
}

// IsProtocolVersion reports whether value is one of "1.0", "1.1" or "2.0".
func IsProtocolVersion(value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	switch s {
	case Version10, Version11, Version20:
		return true
	}
	return false
}

// isTokenChar reports whether c is an RFC 7230 tchar.
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}

// toStringMap copies a value accepted by IsKeyValueArray into a new map.
func toStringMap(value interface{}) map[string]string {
	switch m := value.(type) {
	case map[string]string:
		return cloneStrings(m)
	case map[string]interface{}:
		out := make(map[string]string, len(m))
		for k, v := range m {
			out[k] = v.(string)
		}
		return out
	}
	rv := reflect.ValueOf(value)
	out := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		v := iter.Value()
		if v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		out[iter.Key().String()] = v.String()
	}
	return out
}

func cloneStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
