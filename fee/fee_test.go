package fee

import (
	"math"
	"math/rand"
	"testing"

	"github.com/blocknet/go-blocknet/inter"
	"github.com/stretchr/testify/require"
)

func TestDecomposeKnownValues(t *testing.T) {
	require := require.New(t)

	ct, it, err := Decompose(0, 100)
	require.NoError(err)
	require.Equal(uint64(100), ct)
	require.Equal(uint64(0), it)

	ct, it, err = Decompose(1, 100)
	require.NoError(err)
	require.Equal(uint64(0), ct)
	require.Equal(uint64(100), it)

	// odd split: consumer lane takes the rounding remainder
	ct, it, err = Decompose(2, 7)
	require.NoError(err)
	require.Equal(uint64(4), ct)
	require.Equal(uint64(3), it)

	ct, it, err = Decompose(2, 0)
	require.NoError(err)
	require.Zero(ct)
	require.Zero(it)
}

func TestDecomposeRejects(t *testing.T) {
	require := require.New(t)

	_, _, err := Decompose(3, 10)
	require.Equal(ErrBadSelector, err)

	_, _, err = Decompose(0, inter.MaxTxValue+1)
	require.Equal(ErrFeeTooLarge, err)

	_, _, err = Decompose(2, math.MaxUint64)
	require.Equal(ErrFeeTooLarge, err)

	// boundary value is accepted
	ct, it, err := Decompose(2, inter.MaxTxValue)
	require.NoError(err)
	require.Equal(inter.MaxTxValue, ct+it)
}

// TestDecomposeSumIdentity checks ct+it == f over every selector and a
// randomized sweep of fees.
func TestDecomposeSumIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for sel := uint8(0); sel <= 2; sel++ {
		for i := 0; i < 1000; i++ {
			f := r.Uint64() & inter.MaxTxValue
			ct, it, err := Decompose(sel, f)
			require.NoError(t, err)
			require.Equal(t, f, ct+it, "selector=%d f=%d", sel, f)
		}
	}
}
