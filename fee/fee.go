// Package fee implements the fee decomposition algebra. A transaction's
// raw fee is split into two bookkeeping lanes (consumer and industrial,
// a migration artifact of the legacy two-token accounting) according to
// its 2-bit selector. The split is pure integer arithmetic: the two
// components always sum back to the raw fee exactly, which is what keeps
// fee routing supply-neutral.
package fee

import (
	"errors"

	"github.com/blocknet/go-blocknet/inter"
)

var (
	// ErrBadSelector is returned for selector values outside {0,1,2}.
	ErrBadSelector = errors.New("invalid fee selector")
	// ErrFeeTooLarge is returned when the raw fee is >= 2^63.
	ErrFeeTooLarge = errors.New("fee out of range")
)

// Decompose splits raw fee f into (consumer, industrial) lane components
// according to selector:
//
//	0: (f, 0)
//	1: (0, f)
//	2: (ceil(f/2), floor(f/2))
//
// Invariant: ct + it == f for every accepted input. Rejects selector 3
// and f >= 2^63; a block carrying such a transaction is rejected whole.
func Decompose(selector uint8, f uint64) (ct, it uint64, err error) {
	if selector > inter.MaxFeeSelector {
		return 0, 0, ErrBadSelector
	}
	if f > inter.MaxTxValue {
		return 0, 0, ErrFeeTooLarge
	}
	switch selector {
	case inter.FeeSelectorConsumer:
		return f, 0, nil
	case inter.FeeSelectorIndustrial:
		return 0, f, nil
	default: // inter.FeeSelectorSplit
		half := f / 2
		return f - half, half, nil
	}
}
