package httpmsg

import (
	"strings"
)

// Header is a single header field with its ordered values.
// Key keeps the casing of the most recent assignment.
type Header struct {
	Key    string
	Values []string
}

// Headers is an ordered list of header fields. Lookups are case-insensitive
// and at most one entry exists per case-insensitive name.
type Headers []Header

// index returns the position of the entry matching key case-insensitively, or -1.
func (h Headers) index(key string) int {
	for i, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			return i
		}
	}
	return -1
}

// Has reports whether a header with the given key exists (case-insensitive).
func (h Headers) Has(key string) bool {
	return h.index(key) >= 0
}

// Get returns the values for key joined with ", ".
// Returns empty string if not found.
func (h Headers) Get(key string) string {
	i := h.index(key)
	if i < 0 {
		return ""
	}
	return strings.Join(h[i].Values, ", ")
}

// Values returns a copy of the values stored for key (case-insensitive).
func (h Headers) Values(key string) []string {
	i := h.index(key)
	if i < 0 {
		return nil
	}
	return append([]string(nil), h[i].Values...)
}

// Names returns the stored header names in order.
func (h Headers) Names() []string {
	names := make([]string, len(h))
	for i, hdr := range h {
		names[i] = hdr.Key
	}
	return names
}

// Set removes every case variant of key and appends a new entry
// stored under the given casing.
func (h *Headers) Set(key string, values ...string) {
	h.Del(key)
	*h = append(*h, Header{Key: key, Values: append([]string(nil), values...)})
}

// Add appends values under the existing casing of key, or creates a new
// entry when key is not present.
func (h *Headers) Add(key string, values ...string) {
	if i := h.index(key); i >= 0 {
		merged := make([]string, 0, len((*h)[i].Values)+len(values))
		merged = append(merged, (*h)[i].Values...)
		merged = append(merged, values...)
		(*h)[i].Values = merged
		return
	}
	*h = append(*h, Header{Key: key, Values: append([]string(nil), values...)})
}

// Del removes all headers with the given key (case-insensitive).
func (h *Headers) Del(key string) {
	j := 0
	for _, hdr := range *h {
		if !strings.EqualFold(hdr.Key, key) {
			(*h)[j] = hdr
			j++
		}
	}
	*h = (*h)[:j]
}

// Clone returns a deep copy of the headers.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	clone := make(Headers, len(h))
	for i, hdr := range h {
		clone[i] = Header{Key: hdr.Key, Values: append([]string(nil), hdr.Values...)}
	}
	return clone
}

// Map returns the headers as a map keyed by stored casing.
func (h Headers) Map() map[string][]string {
	m := make(map[string][]string, len(h))
	for _, hdr := range h {
		m[hdr.Key] = append([]string(nil), hdr.Values...)
	}
	return m
}
