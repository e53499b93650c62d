package httpmsg

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// Encoder writes responses to a transport. It remembers whether the status
// line and headers, and the content, have already been sent, and sends each
// at most once.
type Encoder struct {
	w           io.Writer
	logger      zerolog.Logger
	headersSent bool
	contentSent bool
}

// EncoderOption configures NewEncoder.
type EncoderOption func(*Encoder)

// WithEncoderLogger sets the encoder logger. The default discards everything.
func WithEncoderLogger(l zerolog.Logger) EncoderOption {
	return func(e *Encoder) { e.logger = l }
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{w: w, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HeadersSent reports whether SendHeaders has written the header block.
func (e *Encoder) HeadersSent() bool { return e.headersSent }

// ContentSent reports whether SendContent has written the body.
func (e *Encoder) ContentSent() bool { return e.contentSent }

// SendHeaders writes the status line, one line per header value and the
// blank separator line. It does nothing once headers were sent.
func (e *Encoder) SendHeaders(resp *Response) error {
	if e.headersSent {
		e.logger.Debug().Int("status", resp.StatusCode()).Msg("headers already sent, skipping")
		return nil
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	bb.B = append(bb.B, resp.RenderStatusLine()...)
	bb.B = appendCRLF(bb.B)
	bb.B = appendHeaders(bb.B, resp.headers)
	bb.B = appendCRLF(bb.B)

	if _, err := e.w.Write(bb.B); err != nil {
		return err
	}
	e.headersSent = true
	e.logger.Debug().
		Str("status_line", resp.RenderStatusLine()).
		Int("headers", len(resp.headers)).
		Msg("headers sent")
	return nil
}

// SendContent writes the body. It does nothing once content was sent.
func (e *Encoder) SendContent(resp *Response) error {
	if e.contentSent {
		e.logger.Debug().Msg("content already sent, skipping")
		return nil
	}
	var n int
	if body := resp.Body(); body != nil {
		content, err := body.Contents()
		if err != nil {
			return err
		}
		if n, err = io.WriteString(e.w, content); err != nil {
			return err
		}
	}
	e.contentSent = true
	e.logger.Debug().Int("bytes", n).Msg("content sent")
	return nil
}

// Send writes headers, then content.
func (e *Encoder) Send(resp *Response) error {
	if err := e.SendHeaders(resp); err != nil {
		return err
	}
	return e.SendContent(resp)
}

// Encode writes the wire-format encoding of v without touching the sent
// flags. v must be a *Request, *ServerRequest or *Response.
func (e *Encoder) Encode(v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
