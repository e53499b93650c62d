package httpmsg

import (
	"errors"
	"testing"
)

func TestResponse_Defaults(t *testing.T) {
	var zero Response
	if zero.StatusCode() != 200 || zero.ReasonPhrase() != "OK" {
		t.Errorf("zero = %d %q, want 200 OK", zero.StatusCode(), zero.ReasonPhrase())
	}
	r := NewResponse()
	if got := r.RenderStatusLine(); got != "HTTP/1.1 200 OK" {
		t.Errorf("RenderStatusLine() = %q", got)
	}
}

func TestResponse_WithStatus(t *testing.T) {
	tests := []struct {
		code       int
		reason     []string
		wantReason string
		wantLine   string
	}{
		{404, nil, "Not Found", "HTTP/1.1 404 Not Found"},
		{418, nil, "I'm a teapot", "HTTP/1.1 418 I'm a teapot"},
		{200, []string{"Fine"}, "Fine", "HTTP/1.1 200 Fine"},
		{204, []string{""}, "", "HTTP/1.1 204"},
	}
	for _, tt := range tests {
		r, err := NewResponse().WithStatus(tt.code, tt.reason...)
		if err != nil {
			t.Fatalf("WithStatus(%d) error = %v", tt.code, err)
		}
		if r.StatusCode() != tt.code {
			t.Errorf("StatusCode() = %d, want %d", r.StatusCode(), tt.code)
		}
		if r.ReasonPhrase() != tt.wantReason {
			t.Errorf("ReasonPhrase() = %q, want %q", r.ReasonPhrase(), tt.wantReason)
		}
		if got := r.RenderStatusLine(); got != tt.wantLine {
			t.Errorf("RenderStatusLine() = %q, want %q", got, tt.wantLine)
		}
	}
}

func TestResponse_InvalidStatus(t *testing.T) {
	for _, code := range []int{0, 99, 209, 420, 600, -1} {
		if _, err := NewResponse().WithStatus(code); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("WithStatus(%d) error = %v, want ErrInvalidArgument", code, err)
		}
	}
}

func TestResponse_StatusSurvivesMutators(t *testing.T) {
	r, _ := NewResponse().WithStatus(201, "Made")
	r2, err := r.WithHeader("Location", "/items/1")
	if err != nil {
		t.Fatal(err)
	}
	r2, err = r2.WithProtocolVersion("2.0")
	if err != nil {
		t.Fatal(err)
	}
	if got := r2.RenderStatusLine(); got != "HTTP/2.0 201 Made" {
		t.Errorf("RenderStatusLine() = %q", got)
	}
	if r.ProtocolVersion() != "1.1" || r.HasHeader("Location") {
		t.Error("receiver changed")
	}
}

func TestReasonPhrases(t *testing.T) {
	if got := ReasonPhrase(503); got != "Service Unavailable" {
		t.Errorf("ReasonPhrase(503) = %q", got)
	}
	if got := ReasonPhrase(299); got != "" {
		t.Errorf("ReasonPhrase(299) = %q, want empty", got)
	}
	table := RecommendedReasonPhrases()
	table[200] = "changed"
	if ReasonPhrase(200) != "OK" {
		t.Error("RecommendedReasonPhrases() exposed the table")
	}
}
