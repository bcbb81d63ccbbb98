// Package txsigner implements the Ed25519 transaction signature scheme
// and the address derivation that binds a sender address to its public
// key. The consensus core treats signatures as opaque and checks them
// through the blockproc.SignatureChecker interface; this package is the
// production implementation of that interface.
package txsigner

import (
	"crypto/ed25519"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/blocknet/go-blocknet/inter"
)

var (
	// ErrWrongSender is returned when the From address doesn't match
	// the attached public key.
	ErrWrongSender = errors.New("sender address does not match public key")
	// ErrInvalidSignature is returned when the Ed25519 verification
	// fails.
	ErrInvalidSignature = errors.New("invalid transaction signature")
)

// AddressOf derives the account address of an Ed25519 public key:
// the last 20 bytes of its Keccak256 hash.
func AddressOf(pub [32]byte) common.Address {
	h := crypto.Keccak256(pub[:])
	return common.BytesToAddress(h[12:])
}

// Sign fills in tx.PubKey and tx.Sig, signing the transaction ID (which
// commits to the canonical payload and the public key) with key.
func Sign(key ed25519.PrivateKey, tx *inter.Transaction) error {
	pub, ok := key.Public().(ed25519.PublicKey)
	if !ok || len(pub) != len(tx.PubKey) {
		return errors.New("unexpected public key size")
	}
	copy(tx.PubKey[:], pub)
	if AddressOf(tx.PubKey) != tx.From {
		return ErrWrongSender
	}
	id := tx.ID()
	copy(tx.Sig[:], ed25519.Sign(key, id[:]))
	return nil
}

// Checker verifies transaction signatures. Stateless; the zero value is
// ready to use.
type Checker struct{}

// CheckSignature verifies that tx.From is the address of tx.PubKey and
// that tx.Sig is a valid Ed25519 signature of the transaction ID.
func (Checker) CheckSignature(tx *inter.Transaction) error {
	if AddressOf(tx.PubKey) != tx.From {
		return ErrWrongSender
	}
	id := tx.ID()
	if !ed25519.Verify(tx.PubKey[:], id[:], tx.Sig[:]) {
		return ErrInvalidSignature
	}
	return nil
}
