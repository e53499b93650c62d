package httpmsg

import "github.com/rs/zerolog"

// Option configures NewServerRequest.
type Option func(*options)

type options struct {
	factory     *ParserFactory
	logger      zerolog.Logger
	bufferLimit int64
}

func defaultOptions() options {
	return options{
		factory: NewParserFactory(),
		logger:  zerolog.Nop(),
	}
}

// WithParserFactory selects the factory used to parse the request body.
func WithParserFactory(f *ParserFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBufferLimit caps the number of body bytes buffered from the
// environment input. Zero means no limit.
func WithBufferLimit(n int64) Option {
	return func(o *options) { o.bufferLimit = n }
}
