// Package forkchoice decides between competing chain tips. The rule is
// pure and total: every node comparing the same two tips reaches the
// same verdict, and comparing a tip against itself never suggests a
// switch, so two honest nodes cannot oscillate between equal chains.
package forkchoice

import (
	"bytes"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
)

// Weight is the fork choice input for one chain: its tip height and tip
// hash. Height dominates; the hash only breaks exact-length ties.
type Weight struct {
	Height  idx.Block
	TipHash common.Hash
}

// Better reports whether candidate should replace current. A longer
// chain always wins. At equal length the candidate wins only when its
// tip hash is strictly greater, which makes the tie-break deterministic
// and keeps the current tip sticky against byte-identical competition.
func Better(current, candidate Weight) bool {
	if candidate.Height != current.Height {
		return candidate.Height > current.Height
	}
	return bytes.Compare(candidate.TipHash[:], current.TipHash[:]) > 0
}

// Best returns the preferred of the two weights.
func Best(current, candidate Weight) Weight {
	if Better(current, candidate) {
		return candidate
	}
	return current
}
