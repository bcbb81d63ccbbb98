// Package bits implements an unaligned bitstream reader and writer.
// It backs the CSER codec, which stores boolean flags and small size
// fields as individual bits instead of whole bytes.
package bits

type (
	// Array holds the raw bytes of a bitstream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bits to an Array.
	Writer struct {
		*Array
		bitOffset int // next free bit in the last byte, 0-7
	}

	// Reader consumes bits from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int // next unread bit in the current byte, 0-7
	}
)

// NewWriter wraps arr for bit-level appends.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader wraps arr for bit-level reads.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

func (w *Writer) byteBitsFree() int {
	return 8 - w.bitOffset
}

func (w *Writer) writeIntoLastByte(v uint) {
	w.Bytes[len(w.Bytes)-1] |= byte(v << w.bitOffset)
}

// maskLow keeps only the bits of v that fit into the free space implied
// by the given left-clearance.
func maskLow(v uint, clear int) uint {
	mask := uint(0xff) >> clear
	return v & mask
}

// Write appends the lowest count bits of v, LSB first.
func (w *Writer) Write(count int, v uint) {
	if w.bitOffset == 0 {
		w.Bytes = append(w.Bytes, byte(0))
	}

	free := w.byteBitsFree()
	if count <= free {
		w.writeIntoLastByte(v)
		if count == free {
			w.bitOffset = 0
		} else {
			w.bitOffset += count
		}
		return
	}

	// Spills into the next byte: fill the current one, recurse for the rest.
	w.writeIntoLastByte(maskLow(v, w.bitOffset))
	w.bitOffset = 0
	w.Write(count-free, v>>free)
}

func (r *Reader) byteBitsFree() int {
	return 8 - r.bitOffset
}

// Read consumes count bits and returns them as an integer, LSB first.
func (r *Reader) Read(count int) (v uint) {
	if count == 0 {
		return 0
	}

	free := r.byteBitsFree()
	if count <= free {
		clear := 8 - (r.bitOffset + count)
		v = maskLow(uint(r.Bytes[r.byteOffset]), clear) >> r.bitOffset
		if count == free {
			r.bitOffset = 0
			r.byteOffset++
		} else {
			r.bitOffset += count
		}
		return v
	}

	// Spans two bytes: take what is left here, recurse for the rest.
	v = uint(r.Bytes[r.byteOffset]) >> r.bitOffset
	r.bitOffset = 0
	r.byteOffset++
	rest := r.Read(count - free)
	v |= rest << free
	return v
}

// View reads count bits without advancing the cursor.
func (r *Reader) View(count int) (v uint) {
	cp := *r
	return (&cp).Read(count)
}

// NonReadBytes returns the number of unconsumed bytes.
func (r *Reader) NonReadBytes() int {
	return len(r.Bytes) - r.byteOffset
}

// NonReadBits returns the number of unconsumed bits.
func (r *Reader) NonReadBits() int {
	return r.NonReadBytes()*8 - r.bitOffset
}
