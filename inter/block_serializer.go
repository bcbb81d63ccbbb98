package inter

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/blocknet/go-blocknet/utils/cser"
	"github.com/ethereum/go-ethereum/common"
)

// HeaderBytes returns the canonical header encoding the block hash is
// computed over. Transactions are committed to by ID, so the hash covers
// their full signed content without re-encoding it.
func (b *Block) HeaderBytes() ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.FixedBytes(b.ParentHash[:])
		w.U64(uint64(b.Height))
		w.U64(uint64(b.Time))
		w.FixedBytes(b.Miner[:])
		w.U64(b.Coinbase)
		w.FixedBytes(b.FeeChecksum[:])
		w.VarUint(uint64(len(b.Txs)))
		for _, tx := range b.Txs {
			id := tx.ID()
			w.FixedBytes(id[:])
		}
		return nil
	})
}

// MarshalCSER writes the full wire form of the block including complete
// transactions.
func (b *Block) MarshalCSER(w *cser.Writer) error {
	w.FixedBytes(b.ParentHash[:])
	w.U64(uint64(b.Height))
	w.U64(uint64(b.Time))
	w.FixedBytes(b.Miner[:])
	w.U64(b.Coinbase)
	w.FixedBytes(b.FeeChecksum[:])
	w.VarUint(uint64(len(b.Txs)))
	for _, tx := range b.Txs {
		err := tx.MarshalCSER(w)
		if err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalCSER reads the full wire form of the block.
func (b *Block) UnmarshalCSER(r *cser.Reader) error {
	var parent common.Hash
	r.FixedBytes(parent[:])
	b.ParentHash = parent
	b.Height = idx.Block(r.U64())
	b.Time = Timestamp(r.U64())
	r.FixedBytes(b.Miner[:])
	b.Coinbase = r.U64()
	r.FixedBytes(b.FeeChecksum[:])

	num := r.VarUint()
	if num > ProtocolMaxMsgSize/128 {
		return cser.ErrTooLargeAlloc
	}
	b.Txs = make([]*Transaction, num)
	for i := range b.Txs {
		tx := &Transaction{}
		err := tx.UnmarshalCSER(r)
		if err != nil {
			return err
		}
		b.Txs[i] = tx
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Block) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(b.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *Block) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, b.UnmarshalCSER)
}
