package inter

import (
	"errors"

	"github.com/blocknet/go-blocknet/utils/cser"
)

// Canonical CSER encodings. These byte layouts are consensus-critical:
// transaction IDs, block hashes and signatures are all computed over
// them. The codec's strict mode guarantees a single valid encoding per
// value, so equal values always produce equal hashes.

// ProtocolMaxMsgSize is the hard limit for any decoded consensus
// message (10 MB).
const ProtocolMaxMsgSize = 10 * 1024 * 1024

// MaxMemoSize bounds the free-form memo field.
const MaxMemoSize = 1024

var (
	// ErrBadFeeSelector is returned when decoding a transaction whose
	// selector field is outside {0,1,2}.
	ErrBadFeeSelector = errors.New("invalid fee selector")
	// ErrMemoTooLarge is returned when a memo exceeds MaxMemoSize.
	ErrMemoTooLarge = errors.New("memo exceeds size limit")
)

// PayloadBytes returns the canonical encoding of the signed portion of
// the transaction: everything except PubKey and Sig.
func (tx *Transaction) PayloadBytes() ([]byte, error) {
	if len(tx.Memo) > MaxMemoSize {
		return nil, ErrMemoTooLarge
	}
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.FixedBytes(tx.From[:])
		w.FixedBytes(tx.To[:])
		w.U64(tx.Amount)
		w.U64(tx.Fee)
		// 2 bits is all the selector ever needs
		w.BitsW.Write(2, uint(tx.FeeSelector&0x3))
		w.U64(tx.Nonce)
		w.SliceBytes(tx.Memo)
		return nil
	})
}

// MarshalCSER writes the full wire form: payload plus the opaque
// signature material.
func (tx *Transaction) MarshalCSER(w *cser.Writer) error {
	if len(tx.Memo) > MaxMemoSize {
		return ErrMemoTooLarge
	}
	w.FixedBytes(tx.From[:])
	w.FixedBytes(tx.To[:])
	w.U64(tx.Amount)
	w.U64(tx.Fee)
	w.BitsW.Write(2, uint(tx.FeeSelector&0x3))
	w.U64(tx.Nonce)
	w.SliceBytes(tx.Memo)
	w.FixedBytes(tx.PubKey[:])
	w.FixedBytes(tx.Sig[:])
	return nil
}

// UnmarshalCSER reads the full wire form. Selector 3 is rejected here so
// a malformed transaction never reaches the fee algebra.
func (tx *Transaction) UnmarshalCSER(r *cser.Reader) error {
	r.FixedBytes(tx.From[:])
	r.FixedBytes(tx.To[:])
	tx.Amount = r.U64()
	tx.Fee = r.U64()
	tx.FeeSelector = uint8(r.BitsR.Read(2))
	if tx.FeeSelector > MaxFeeSelector {
		return ErrBadFeeSelector
	}
	tx.Nonce = r.U64()
	tx.Memo = r.SliceBytes(MaxMemoSize)
	r.FixedBytes(tx.PubKey[:])
	r.FixedBytes(tx.Sig[:])
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(tx.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (tx *Transaction) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, tx.UnmarshalCSER)
}
