package httpmsg

import (
	"errors"
	"fmt"
)

// kind is an error category. Kinds may refine a parent kind so that
// errors.Is(err, ErrInvalidArgument) also matches ErrInvalidScheme failures.
type kind struct {
	name   string
	parent error
}

func (k *kind) Error() string { return k.name }

func (k *kind) Unwrap() error { return k.parent }

// Error kinds. Match them with errors.Is.
var (
	// ErrInvalidArgument reports malformed input to a constructor or mutator.
	ErrInvalidArgument error = &kind{name: "invalid argument"}

	// ErrInvalidScheme reports a URI scheme other than "", "http" or "https".
	ErrInvalidScheme error = &kind{name: "invalid scheme", parent: ErrInvalidArgument}

	// ErrInvalidHostName reports a host that fails hostname validation.
	ErrInvalidHostName error = &kind{name: "invalid host name", parent: ErrInvalidArgument}

	// ErrInvalidVersion reports an unsupported HTTP protocol version.
	ErrInvalidVersion error = &kind{name: "invalid protocol version", parent: ErrInvalidArgument}

	// ErrMissingHeader reports a header lookup with no case-insensitive match.
	ErrMissingHeader error = &kind{name: "missing header"}

	// ErrMissingContent reports a body parser invoked without a content stream.
	ErrMissingContent error = &kind{name: "missing content"}

	// ErrParsingFailure reports content a body parser could not deserialize.
	ErrParsingFailure error = &kind{name: "parsing failure"}
)

// Stream errors.
var (
	ErrDetached    = errors.New("httpmsg: stream is detached")
	ErrNotSeekable = errors.New("httpmsg: stream is not seekable")
	ErrNotReadable = errors.New("httpmsg: stream is not readable")
	ErrNotWritable = errors.New("httpmsg: stream is not writable")

	// ErrHighWaterMark is returned by Buffer.Write once the buffered size
	// reaches the configured high water mark. The data has still been
	// appended; callers should slow down until the buffer is drained.
	ErrHighWaterMark = errors.New("httpmsg: buffer reached its high water mark")
)

// Error is the error type returned by value-object constructors, mutators,
// lookups and body parsers.
type Error struct {
	Kind    error  // one of the Err* kinds
	Message string // human-readable description
	Err     error  // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("httpmsg: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("httpmsg: %s", e.Message)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(k error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func wrapError(k error, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Err: err}
}
