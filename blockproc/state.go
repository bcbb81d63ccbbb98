package blockproc

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/blocknet/go-blocknet/emission"
	"github.com/blocknet/go-blocknet/inter"
	"github.com/blocknet/go-blocknet/utils/cser"
)

// LaneTotals is the cumulative fee decomposition across the chain. It is
// audit bookkeeping only: both lanes were already burned from sender
// balances, so the totals never participate in balance checks.
type LaneTotals struct {
	Consumer   uint64
	Industrial uint64
}

// Add accumulates one block's fee decomposition.
func (t LaneTotals) Add(feeCT, feeIT uint64) LaneTotals {
	return LaneTotals{
		Consumer:   t.Consumer + feeCT,
		Industrial: t.Industrial + feeIT,
	}
}

// Sum returns the total collected fees.
func (t LaneTotals) Sum() uint64 {
	return t.Consumer + t.Industrial
}

// Checksum commits to the lane totals.
func (t LaneTotals) Checksum() common.Hash {
	return inter.FeeChecksumOf(t.Consumer, t.Industrial)
}

// BlockState is the consensus bookkeeping carried from block to block.
// It is a value type: copying it is a deep copy.
type BlockState struct {
	// LastBlock is the height of the latest committed block.
	LastBlock idx.Block

	// LastBlockHash chains the next block's parent check.
	LastBlockHash common.Hash

	// LastBlockTime enforces time monotonicity.
	LastBlockTime inter.Timestamp

	// TotalEmission is all BLOCK ever minted, genesis included.
	// Invariant: TotalEmission <= blocknet.MaxSupply.
	TotalEmission uint64

	// FeeLanes is the cumulative audit decomposition of burned fees.
	FeeLanes LaneTotals

	// Baselines are the issuance reference levels, EMA-adjusted when
	// adaptive issuance is enabled.
	Baselines emission.Baselines
}

// Copy returns an independent copy.
func (bs BlockState) Copy() BlockState {
	return bs
}

// Hash commits to the full consensus state.
func (bs BlockState) Hash() common.Hash {
	raw, err := cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.U64(uint64(bs.LastBlock))
		w.FixedBytes(bs.LastBlockHash[:])
		w.U64(uint64(bs.LastBlockTime))
		w.U64(bs.TotalEmission)
		w.U64(bs.FeeLanes.Consumer)
		w.U64(bs.FeeLanes.Industrial)
		w.U64(bs.Baselines.TxCount)
		w.U64(bs.Baselines.TxVolume)
		w.U64(bs.Baselines.Miners)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(raw)
}
