// Package inter defines BlockNet's consensus data structures: transactions,
// blocks and the canonical encodings they are hashed over. Every node must
// derive byte-identical encodings for the same values, so all hashing goes
// through the strict CSER codec rather than a reflection-based serializer.
package inter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxVersion is the transaction payload version byte mixed into every
// transaction ID. Bumping it is a hard fork.
const TxVersion = 1

// txDomainTag separates transaction hashes from every other hash domain.
var txDomainTag = []byte("BLOCK_TX")

// Fee selector values. The selector chooses how a transaction's fee is
// split between the two legacy bookkeeping lanes.
const (
	// FeeSelectorConsumer routes the whole fee to the consumer lane.
	FeeSelectorConsumer uint8 = 0
	// FeeSelectorIndustrial routes the whole fee to the industrial lane.
	FeeSelectorIndustrial uint8 = 1
	// FeeSelectorSplit splits the fee between lanes, consumer lane
	// taking the rounding remainder.
	FeeSelectorSplit uint8 = 2

	// MaxFeeSelector is the highest valid selector. The 2-bit field
	// admits 3, which is permanently invalid.
	MaxFeeSelector uint8 = 2
)

// MaxTxValue bounds Amount and Fee: both must stay below 2^63 so that
// any sum of two in-range values still fits in a uint64.
const MaxTxValue uint64 = 1<<63 - 1

// Transaction is a native token transfer. Immutable once signed; the
// signature covers the canonical payload bytes.
//
// The core never verifies PubKey/Sig itself. Verification is delegated
// to an external cryptographic collaborator before a transaction enters
// the state transition; the fields are carried opaquely.
type Transaction struct {
	From        common.Address
	To          common.Address
	Amount      uint64
	Fee         uint64
	FeeSelector uint8
	Nonce       uint64
	Memo        []byte

	PubKey [32]byte
	Sig    [64]byte
}

// ID returns the transaction identifier:
// Keccak256(txDomainTag ‖ TxVersion ‖ canonical payload ‖ pubkey).
// Panics only if the payload violates codec limits, which validated
// transactions cannot.
func (tx *Transaction) ID() common.Hash {
	payload, err := tx.PayloadBytes()
	if err != nil {
		panic(err)
	}
	data := make([]byte, 0, len(txDomainTag)+1+len(payload)+len(tx.PubKey))
	data = append(data, txDomainTag...)
	data = append(data, TxVersion)
	data = append(data, payload...)
	data = append(data, tx.PubKey[:]...)
	return crypto.Keccak256Hash(data)
}

// IsSelfTransfer reports whether sender and recipient are the same
// account. Such transactions are legal fee-only no-ops.
func (tx *Transaction) IsSelfTransfer() bool {
	return tx.From == tx.To
}
