package inter

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// hdrDomainTag separates block hashes from transaction hashes.
var hdrDomainTag = []byte("BLOCK_HDR")

// Block is one element of the chain. Height is always parent height + 1;
// the genesis block has height 0 and carries the rules commitment in
// place of a parent hash.
//
// Coinbase and FeeChecksum are consensus fields: they are set by the
// miner and re-derived independently by every validator. Coinbase is the
// total miner credit (block reward + sum of fees); FeeChecksum commits
// to the per-lane fee totals so a tampered fee split is detectable
// without replaying every transaction.
type Block struct {
	ParentHash common.Hash
	Height     idx.Block
	Time       Timestamp
	Miner      common.Address
	Txs        []*Transaction

	Coinbase    uint64
	FeeChecksum common.Hash
}

// Hash returns the block identifier: Keccak256 over the domain tag and
// the canonical header encoding, which includes every transaction ID.
// Two blocks differing in any consensus field hash differently.
func (b *Block) Hash() common.Hash {
	enc, err := b.HeaderBytes()
	if err != nil {
		panic(err)
	}
	data := make([]byte, 0, len(hdrDomainTag)+len(enc))
	data = append(data, hdrDomainTag...)
	data = append(data, enc...)
	return crypto.Keccak256Hash(data)
}

// FeeChecksumOf commits to the two lane fee totals of a block.
func FeeChecksumOf(feeCT, feeIT uint64) common.Hash {
	var buf [16]byte
	putUint64LE(buf[0:8], feeCT)
	putUint64LE(buf[8:16], feeIT)
	return crypto.Keccak256Hash(buf[:])
}

func putUint64LE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

// EstimateSize returns the approximate in-memory size of the block in
// bytes, for cache accounting.
func (b *Block) EstimateSize() int {
	size := len(b.ParentHash) + len(b.FeeChecksum) + len(b.Miner)
	size += 8 + 8 + 8 // Height, Time, Coinbase
	for _, tx := range b.Txs {
		size += len(tx.From) + len(tx.To) + len(tx.Memo)
		size += len(tx.PubKey) + len(tx.Sig)
		size += 8 + 8 + 1 + 8 // Amount, Fee, FeeSelector, Nonce
	}
	return size
}
