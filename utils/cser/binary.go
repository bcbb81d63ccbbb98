package cser

import (
	"github.com/blocknet/go-blocknet/utils/bits"
	"github.com/blocknet/go-blocknet/utils/fast"
)

// binary.go implements the CSER container format. A CSER blob carries two
// streams: aligned body bytes and an unaligned bitstream for flags and
// size fields. On the wire the layout is
//
//	[ body bytes ][ bitstream bytes ][ reversed varint(len(bitstream)) ]
//
// The length suffix is written in reverse so a reader can locate the
// split by scanning backwards from the end.

// MarshalBinaryAdapter runs marshalCser against a fresh Writer and packs
// both streams into a single byte slice.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()

	err := marshalCser(w)
	if err != nil {
		return nil, err
	}

	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

func binaryFromCSER(bbits *bits.Array, bbytes []byte) (raw []byte, err error) {
	bodyBytes := fast.NewWriter(bbytes)
	bodyBytes.Write(bbits.Bytes)

	sizeWriter := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(sizeWriter, uint64(len(bbits.Bytes)))
	bodyBytes.Write(reversed(sizeWriter.Bytes()))

	return bodyBytes.Bytes(), nil
}

func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	// The suffix varint is at most 9 bytes; decode it back to front.
	bitsSizeBuf := reversed(tail(raw, 9))
	bitsSizeReader := fast.NewReader(bitsSizeBuf)
	bitsSize := readUint64Compact(bitsSizeReader)

	raw = raw[:len(raw)-bitsSizeReader.Position()]
	if uint64(len(raw)) < bitsSize {
		err = ErrMalformedEncoding
		return
	}

	bbits = &bits.Array{Bytes: raw[uint64(len(raw))-bitsSize:]}
	bbytes = raw[:uint64(len(raw))-bitsSize]
	return
}

// UnmarshalBinaryAdapter splits raw into its streams and runs
// unmarshalCser. Trailing unconsumed bytes or non-zero trailing bits are
// rejected as non-canonical.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	// The primitives panic on truncated or padded input.
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (e == ErrNonCanonicalEncoding || e == ErrTooLargeAlloc) {
				err = e
				return
			}
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	bodyReader := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}

	err = unmarshalCser(bodyReader)
	if err != nil {
		return err
	}

	if bodyReader.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	tail := bodyReader.BitsR.Read(bodyReader.BitsR.NonReadBits())
	if tail != 0 {
		return ErrNonCanonicalEncoding
	}
	if !bodyReader.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}

	return nil
}

func tail(b []byte, cap int) []byte {
	if len(b) > cap {
		return b[len(b)-cap:]
	}
	return b
}

func reversed(b []byte) []byte {
	reversed := make([]byte, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}
	return reversed
}
