// Package fast provides minimal byte buffer wrappers for linear
// serialization. The Reader performs no bounds checking and panics on
// over-read; callers recover at the codec boundary.
package fast

// Reader consumes a byte slice front to back.
type Reader struct {
	buf    []byte
	offset int
}

// Writer appends to a byte slice.
type Writer struct {
	buf []byte
}

// NewReader wraps bb for consumption.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter wraps bb, usually make([]byte, 0, capacity).
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends one byte.
func (w *Writer) WriteByte(v byte) {
	w.buf = append(w.buf, v)
}

// Write appends a slice of bytes.
func (w *Writer) Write(v []byte) {
	w.buf = append(w.buf, v...)
}

// Read consumes the next n bytes. The returned slice aliases the
// underlying buffer. Panics if fewer than n bytes remain.
func (r *Reader) Read(n int) []byte {
	res := r.buf[r.offset : r.offset+n]
	r.offset += n
	return res
}

// ReadByte consumes a single byte. Panics if the buffer is empty.
func (r *Reader) ReadByte() byte {
	res := r.buf[r.offset]
	r.offset++
	return res
}

// Position returns how many bytes have been consumed.
func (r *Reader) Position() int {
	return r.offset
}

// Bytes returns the whole underlying buffer.
func (r *Reader) Bytes() []byte {
	return r.buf
}

// Bytes returns the accumulated content.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Empty reports whether the Reader is exhausted.
func (r *Reader) Empty() bool {
	return len(r.buf) == r.offset
}
