package httpmsg

import (
	"errors"
	"io"
	"os"
	"strings"
)

// Stream is the body capability of a Message.
//
// Read, Write and Seek follow the io conventions. Failures caused by the
// stream's capabilities are reported with ErrDetached, ErrNotReadable,
// ErrNotWritable and ErrNotSeekable. A Stream is not safe for concurrent use.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Tell returns the current cursor position.
	Tell() (int64, error)
	// EOF reports whether a read has reached the end of the stream.
	EOF() bool
	IsReadable() bool
	IsWritable() bool
	IsSeekable() bool
	// Size returns the stream size in bytes, or -1 when unknown.
	Size() int64
	// Contents returns everything from the start of a seekable stream, or
	// the remaining bytes of a non-seekable one.
	Contents() (string, error)
	// Metadata returns a copy of the stream metadata.
	Metadata() map[string]interface{}
	// MetadataValue returns a single metadata entry.
	MetadataValue(key string) (interface{}, bool)
	// Detach releases the underlying resource, leaving the stream unusable.
	Detach() interface{}
	// String returns Contents, or "" on error.
	String() string
}

// ResourceStream adapts an io.Reader and/or io.Writer into a Stream. Seeking
// is available when the resource implements io.Seeker; Close closes it when
// it implements io.Closer.
type ResourceStream struct {
	resource interface{}
	mode     string
	uri      string
	pos      int64
	eof      bool
}

// NewStream wraps resource using an fopen-style mode such as "r", "r+",
// "w", "a+" or "c". The resource must implement io.Reader or io.Writer.
func NewStream(resource interface{}, mode string) (*ResourceStream, error) {
	_, isReader := resource.(io.Reader)
	_, isWriter := resource.(io.Writer)
	if !isReader && !isWriter {
		return nil, newError(ErrInvalidArgument, "invalid stream provided; must implement io.Reader or io.Writer, got %T", resource)
	}
	s := &ResourceStream{resource: resource, mode: mode}
	if f, ok := resource.(interface{ Name() string }); ok {
		s.uri = f.Name()
	}
	return s, nil
}

// OpenStream opens the file at path with an fopen-style mode.
func OpenStream(path, mode string) (*ResourceStream, error) {
	flag, err := openFlag(mode)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, wrapError(ErrInvalidArgument, err, "cannot open stream %q", path)
	}
	return &ResourceStream{resource: f, mode: mode, uri: path}, nil
}

// NewTempStream returns an empty, seekable in-memory stream.
func NewTempStream() *ResourceStream {
	return &ResourceStream{resource: &memFile{}, mode: "w+b", uri: "temp"}
}

func openFlag(mode string) (int, error) {
	m := strings.NewReplacer("b", "", "t", "").Replace(mode)
	switch m {
	case "r":
		return os.O_RDONLY, nil
	case "r+":
		return os.O_RDWR, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	case "x":
		return os.O_WRONLY | os.O_CREATE | os.O_EXCL, nil
	case "x+":
		return os.O_RDWR | os.O_CREATE | os.O_EXCL, nil
	case "c":
		return os.O_WRONLY | os.O_CREATE, nil
	case "c+":
		return os.O_RDWR | os.O_CREATE, nil
	}
	return 0, newError(ErrInvalidArgument, "invalid stream mode %q", mode)
}

// IsReadable reports whether the mode and resource allow reading.
func (s *ResourceStream) IsReadable() bool {
	if s.resource == nil {
		return false
	}
	if _, ok := s.resource.(io.Reader); !ok {
		return false
	}
	return strings.ContainsAny(s.mode, "r+")
}

// IsWritable reports whether the mode and resource allow writing.
func (s *ResourceStream) IsWritable() bool {
	if s.resource == nil {
		return false
	}
	if _, ok := s.resource.(io.Writer); !ok {
		return false
	}
	return strings.Contains(s.mode, "r+") || strings.ContainsAny(s.mode, "awxc")
}

// IsSeekable reports whether the resource implements io.Seeker.
func (s *ResourceStream) IsSeekable() bool {
	if s.resource == nil {
		return false
	}
	_, ok := s.resource.(io.Seeker)
	return ok
}

// Read reads up to len(p) bytes.
func (s *ResourceStream) Read(p []byte) (int, error) {
	if s.resource == nil {
		return 0, ErrDetached
	}
	if !s.IsReadable() {
		return 0, ErrNotReadable
	}
	n, err := s.resource.(io.Reader).Read(p)
	s.pos += int64(n)
	if errors.Is(err, io.EOF) {
		s.eof = true
	}
	return n, err
}

// Write writes p to the resource.
func (s *ResourceStream) Write(p []byte) (int, error) {
	if s.resource == nil {
		return 0, ErrDetached
	}
	if !s.IsWritable() {
		return 0, ErrNotWritable
	}
	n, err := s.resource.(io.Writer).Write(p)
	s.pos += int64(n)
	return n, err
}

// Seek moves the cursor and clears the EOF flag.
func (s *ResourceStream) Seek(offset int64, whence int) (int64, error) {
	if s.resource == nil {
		return 0, ErrDetached
	}
	if !s.IsSeekable() {
		return 0, ErrNotSeekable
	}
	n, err := s.resource.(io.Seeker).Seek(offset, whence)
	if err != nil {
		return n, err
	}
	s.pos = n
	s.eof = false
	return n, nil
}

// Rewind seeks to the start of the stream.
func (s *ResourceStream) Rewind() error {
	_, err := s.Seek(0, io.SeekStart)
	return err
}

// Tell returns the cursor position.
func (s *ResourceStream) Tell() (int64, error) {
	if s.resource == nil {
		return 0, ErrDetached
	}
	if sk, ok := s.resource.(io.Seeker); ok {
		return sk.Seek(0, io.SeekCurrent)
	}
	return s.pos, nil
}

// EOF reports whether the last read hit the end. A detached stream is
// always at EOF.
func (s *ResourceStream) EOF() bool {
	return s.resource == nil || s.eof
}

// Size returns the size of a seekable resource, or -1.
func (s *ResourceStream) Size() int64 {
	sk, ok := s.resource.(io.Seeker)
	if !ok {
		return -1
	}
	cur, err := sk.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	end, err := sk.Seek(0, io.SeekEnd)
	if err != nil {
		return -1
	}
	if _, err := sk.Seek(cur, io.SeekStart); err != nil {
		return -1
	}
	return end
}

// Contents reads the whole stream, starting from offset 0 when seekable.
func (s *ResourceStream) Contents() (string, error) {
	if s.resource == nil {
		return "", ErrDetached
	}
	if !s.IsReadable() {
		return "", ErrNotReadable
	}
	if s.IsSeekable() {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
	}
	b, err := io.ReadAll(s)
	s.eof = true
	if err != nil {
		return string(b), err
	}
	return string(b), nil
}

// String returns Contents, or "" on error.
func (s *ResourceStream) String() string {
	c, err := s.Contents()
	if err != nil {
		return ""
	}
	return c
}

// Metadata returns mode, seekable, uri and eof.
func (s *ResourceStream) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"mode":     s.mode,
		"seekable": s.IsSeekable(),
		"uri":      s.uri,
		"eof":      s.EOF(),
	}
}

// MetadataValue returns one metadata entry.
func (s *ResourceStream) MetadataValue(key string) (interface{}, bool) {
	v, ok := s.Metadata()[key]
	return v, ok
}

// Detach returns the underlying resource and leaves the stream unusable.
// A second call returns nil.
func (s *ResourceStream) Detach() interface{} {
	r := s.resource
	s.resource = nil
	return r
}

// Close detaches and closes the resource when it implements io.Closer.
// Closing a detached stream is a no-op.
func (s *ResourceStream) Close() error {
	r := s.Detach()
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
