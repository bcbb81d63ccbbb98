// Package cser implements the canonical serialization format used for
// consensus hashing. Integers are split-encoded: the byte length goes to
// the bitstream, the value bytes to the body stream, so small numbers
// stay compact. Encodings are strict: a value stored with padding bytes
// or non-zero unused bits is rejected, which guarantees one and only one
// encoding per value.
package cser

import (
	"errors"
	"math/big"

	"github.com/blocknet/go-blocknet/utils/bits"
	"github.com/blocknet/go-blocknet/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	ErrMalformedEncoding    = errors.New("malformed encoding")
	ErrTooLargeAlloc        = errors.New("too large allocation")
)

// MaxAlloc limits decoded slice sizes to bound allocations on malicious
// input.
const MaxAlloc = 100 * 1024

// Writer orchestrates the two output streams.
type Writer struct {
	BitsW  *bits.Writer
	BytesW *fast.Writer
}

// Reader orchestrates the two input streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter creates a ready-to-use CSER writer.
func NewWriter() *Writer {
	bbits := &bits.Array{Bytes: make([]byte, 0, 32)}
	bbytes := make([]byte, 0, 200)
	return &Writer{
		BitsW:  bits.NewWriter(bbits),
		BytesW: fast.NewWriter(bbytes),
	}
}

// writeUint64Compact is the varint used for the container length suffix.
// Reverse stop-bit logic: MSB set means last byte.
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for {
		chunk := v & 0x7f
		v = v >> 7
		if v == 0 {
			chunk |= 0x80
		}
		bytesW.WriteByte(byte(chunk))
		if v == 0 {
			break
		}
	}
}

func readUint64Compact(bytesR *fast.Reader) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadByte())
		stop = (chunk & 0x80) != 0
		word := chunk & 0x7f
		v |= word << (i * 7)
		// a trailing zero data byte means the value was padded
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v little-endian using the minimum number
// of bytes, but at least minSize. Returns the byte count.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v = v >> 8
	}
	return
}

func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	buf := bytesR.Read(size)
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
		last = b
	}
	// the most significant byte must carry data
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	size += uint(minSize)
	return readUint64BitCompact(r.BytesR, int(size))
}

func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

// U8 writes a single raw byte.
func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

// U16 uses 1 size bit: 1 or 2 body bytes.
func (w *Writer) U16(v uint16) {
	w.writeU64_bits(1, 1, uint64(v))
}

func (r *Reader) U16() uint16 {
	v64 := r.readU64_bits(1, 1)
	return uint16(v64)
}

// U32 uses 2 size bits: 1..4 body bytes.
func (w *Writer) U32(v uint32) {
	w.writeU64_bits(1, 2, uint64(v))
}

func (r *Reader) U32() uint32 {
	v64 := r.readU64_bits(1, 2)
	return uint32(v64)
}

// U64 uses 3 size bits: 1..8 body bytes.
func (w *Writer) U64(v uint64) {
	w.writeU64_bits(1, 3, v)
}

func (r *Reader) U64() uint64 {
	return r.readU64_bits(1, 3)
}

// VarUint is the encoding used for counts and lengths.
func (w *Writer) VarUint(v uint64) {
	w.writeU64_bits(1, 3, v)
}

func (r *Reader) VarUint() uint64 {
	return r.readU64_bits(1, 3)
}

// U56 encodes slice lengths, capped at 7 bytes.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("Value too big")
	}
	w.writeU64_bits(0, 3, v)
}

func (r *Reader) U56() uint64 {
	return r.readU64_bits(0, 3)
}

// Bool is a single bit in the bitstream.
func (w *Writer) Bool(v bool) {
	u8 := uint(0)
	if v {
		u8 = 1
	}
	w.BitsW.Write(1, u8)
}

func (r *Reader) Bool() bool {
	u8 := r.BitsR.Read(1)
	return u8 != 0
}

// FixedBytes writes raw bytes with no length prefix.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

func (r *Reader) FixedBytes(v []byte) {
	buf := r.BytesR.Read(len(v))
	copy(v, buf)
}

// SliceBytes writes [length U56][raw bytes].
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

// PaddedBytes left-pads b with zeros to at least n bytes.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padding := make([]byte, n-len(b))
	return append(padding, b...)
}

// BigInt stores the big-endian magnitude as a byte slice. Only
// non-negative values occur in this protocol.
func (w *Writer) BigInt(v *big.Int) {
	bigBytes := []byte{}
	if v.Sign() != 0 {
		bigBytes = v.Bytes()
	}
	w.SliceBytes(bigBytes)
}

func (r *Reader) BigInt() *big.Int {
	buf := r.SliceBytes(512)
	if len(buf) == 0 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}
