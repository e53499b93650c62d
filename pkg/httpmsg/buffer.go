package httpmsg

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// DefaultHighWaterMark is the Buffer capacity used when none is given.
const DefaultHighWaterMark = 16384

// Buffer is an in-memory, non-seekable Stream. Reads drain the buffer.
// Writes always append; once the buffered size reaches the high water mark
// Write also returns ErrHighWaterMark so the producer can back off.
type Buffer struct {
	hwm int
	buf *bytebufferpool.ByteBuffer
}

// NewBuffer returns an empty Buffer. A non-positive hwm selects
// DefaultHighWaterMark.
func NewBuffer(hwm int) *Buffer {
	if hwm <= 0 {
		hwm = DefaultHighWaterMark
	}
	return &Buffer{hwm: hwm}
}

func (b *Buffer) bytes() *bytebufferpool.ByteBuffer {
	if b.buf == nil {
		b.buf = bytebufferpool.Get()
	}
	return b.buf
}

// Write appends p.
func (b *Buffer) Write(p []byte) (int, error) {
	bb := b.bytes()
	bb.B = append(bb.B, p...)
	if bb.Len() >= b.hwm {
		return len(p), ErrHighWaterMark
	}
	return len(p), nil
}

// Read moves up to len(p) bytes out of the buffer.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.buf == nil || b.buf.Len() == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.buf.B)
	b.buf.B = append(b.buf.B[:0], b.buf.B[n:]...)
	return n, nil
}

// Seek always fails.
func (b *Buffer) Seek(int64, int) (int64, error) { return 0, ErrNotSeekable }

// Tell always fails.
func (b *Buffer) Tell() (int64, error) { return 0, ErrNotSeekable }

// EOF reports whether the buffer is empty.
func (b *Buffer) EOF() bool { return b.buf == nil || b.buf.Len() == 0 }

func (b *Buffer) IsReadable() bool { return true }
func (b *Buffer) IsWritable() bool { return true }
func (b *Buffer) IsSeekable() bool { return false }

// Size returns the number of buffered bytes.
func (b *Buffer) Size() int64 {
	if b.buf == nil {
		return 0
	}
	return int64(b.buf.Len())
}

// Contents drains and returns the buffer.
func (b *Buffer) Contents() (string, error) {
	if b.buf == nil {
		return "", nil
	}
	s := b.buf.String()
	b.buf.Reset()
	return s, nil
}

// String returns the buffered bytes without draining them.
func (b *Buffer) String() string {
	if b.buf == nil {
		return ""
	}
	return b.buf.String()
}

// Metadata returns the high water mark under "hwm".
func (b *Buffer) Metadata() map[string]interface{} {
	return map[string]interface{}{"hwm": b.hwm}
}

// MetadataValue returns the high water mark for "hwm" and nothing else.
func (b *Buffer) MetadataValue(key string) (interface{}, bool) {
	if key == "hwm" {
		return b.hwm, true
	}
	return nil, false
}

// Close discards the buffered bytes. The Buffer stays usable.
func (b *Buffer) Close() error {
	if b.buf != nil {
		bytebufferpool.Put(b.buf)
		b.buf = nil
	}
	return nil
}

// Detach discards the buffered bytes and returns nil.
func (b *Buffer) Detach() interface{} {
	b.Close()
	return nil
}

// memFile is a seekable in-memory file backing NewTempStream.
type memFile struct {
	buf *bytebufferpool.ByteBuffer
	off int64
}

func (f *memFile) data() *bytebufferpool.ByteBuffer {
	if f.buf == nil {
		f.buf = bytebufferpool.Get()
	}
	return f.buf
}

func (f *memFile) Read(p []byte) (int, error) {
	b := f.data().B
	if f.off >= int64(len(b)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	bb := f.data()
	end := f.off + int64(len(p))
	if old := int64(len(bb.B)); end > old {
		if end > int64(cap(bb.B)) {
			grown := make([]byte, len(bb.B), end*2)
			copy(grown, bb.B)
			bb.B = grown
		}
		bb.B = bb.B[:end]
		// zero any gap left by seeking past the end
		for i := old; i < f.off; i++ {
			bb.B[i] = 0
		}
	}
	copy(bb.B[f.off:], p)
	f.off = end
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.off + offset
	case io.SeekEnd:
		abs = int64(f.data().Len()) + offset
	default:
		return 0, newError(ErrInvalidArgument, "invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, newError(ErrInvalidArgument, "negative position %d", abs)
	}
	f.off = abs
	return abs, nil
}

func (f *memFile) Close() error {
	if f.buf != nil {
		bytebufferpool.Put(f.buf)
		f.buf = nil
	}
	f.off = 0
	return nil
}
