package cser

import (
	"math/big"
	"testing"

	"github.com/blocknet/go-blocknet/utils/bits"
	"github.com/blocknet/go-blocknet/utils/fast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReaderFromWriter connects a Reader directly to a Writer's streams,
// bypassing the container framing.
func newReaderFromWriter(w *Writer) *Reader {
	return &Reader{
		BitsR:  bits.NewReader(w.BitsW.Array),
		BytesR: fast.NewReader(w.BytesW.Bytes()),
	}
}

func TestIntegersRoundTrip(t *testing.T) {
	w := NewWriter()

	u8Vals := []uint8{0, 1, 0xFF}
	u16Vals := []uint16{0, 1, 0xFF, 0xFFFF}
	u32Vals := []uint32{0, 1, 0xFFFF, 0xFFFFFFFF}
	u64Vals := []uint64{0, 1, 0xFFFF, 0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF}
	u56Vals := []uint64{0, 1, (1 << 56) - 1}

	for _, v := range u8Vals {
		w.U8(v)
	}
	for _, v := range u16Vals {
		w.U16(v)
	}
	for _, v := range u32Vals {
		w.U32(v)
	}
	for _, v := range u64Vals {
		w.U64(v)
	}
	for _, v := range u64Vals {
		w.VarUint(v)
	}
	for _, v := range u56Vals {
		w.U56(v)
	}

	r := newReaderFromWriter(w)
	for i, want := range u8Vals {
		assert.Equal(t, want, r.U8(), "U8 #%d", i)
	}
	for i, want := range u16Vals {
		assert.Equal(t, want, r.U16(), "U16 #%d", i)
	}
	for i, want := range u32Vals {
		assert.Equal(t, want, r.U32(), "U32 #%d", i)
	}
	for i, want := range u64Vals {
		assert.Equal(t, want, r.U64(), "U64 #%d", i)
	}
	for i, want := range u64Vals {
		assert.Equal(t, want, r.VarUint(), "VarUint #%d", i)
	}
	for i, want := range u56Vals {
		assert.Equal(t, want, r.U56(), "U56 #%d", i)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	w := NewWriter()
	pattern := []bool{true, false, true, true, false, false, true, false, true}
	for _, v := range pattern {
		w.Bool(v)
	}

	r := newReaderFromWriter(w)
	for i, want := range pattern {
		assert.Equal(t, want, r.Bool(), "Bool #%d", i)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	require := require.New(t)

	w := NewWriter()
	fixed := []byte{0xde, 0xad, 0xbe, 0xef}
	variable := []byte{1, 2, 3, 4, 5, 6, 7}
	w.FixedBytes(fixed)
	w.SliceBytes(variable)
	w.SliceBytes(nil)

	r := newReaderFromWriter(w)
	gotFixed := make([]byte, len(fixed))
	r.FixedBytes(gotFixed)
	require.Equal(fixed, gotFixed)
	require.Equal(variable, r.SliceBytes(MaxAlloc))
	require.Empty(r.SliceBytes(MaxAlloc))
}

func TestBigIntRoundTrip(t *testing.T) {
	require := require.New(t)

	vals := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(1 << 40),
		new(big.Int).SetUint64(0xFFFFFFFFFFFFFFFF),
	}

	w := NewWriter()
	for _, v := range vals {
		w.BigInt(v)
	}

	r := newReaderFromWriter(w)
	for i, want := range vals {
		require.Zero(want.Cmp(r.BigInt()), "BigInt #%d", i)
	}
}

func TestPaddedBytes(t *testing.T) {
	cases := []struct {
		in   []byte
		n    int
		want []byte
	}{
		{[]byte{0x05}, 4, []byte{0, 0, 0, 0x05}},
		{[]byte{1, 2, 3, 4}, 4, []byte{1, 2, 3, 4}},
		{[]byte{1, 2, 3, 4, 5}, 4, []byte{1, 2, 3, 4, 5}},
		{nil, 2, []byte{0, 0}},
	}
	for i, tc := range cases {
		got := PaddedBytes(tc.in, tc.n)
		assert.Equal(t, tc.want, got, "case %d", i)
	}
}

func TestAllocLimit(t *testing.T) {
	w := NewWriter()
	w.SliceBytes(make([]byte, 100))

	r := newReaderFromWriter(w)
	defer func() {
		require.Equal(t, ErrTooLargeAlloc, recover())
	}()
	r.SliceBytes(99)
}

func TestU56Overflow(t *testing.T) {
	w := NewWriter()
	defer func() {
		require.NotNil(t, recover())
	}()
	w.U56(1 << 56)
}
