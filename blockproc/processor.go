// Package blockproc validates blocks and advances the ledger. A block
// moves through a fixed pipeline:
//
//	Received -> HeaderChecked -> TransactionsApplied -> SupplyChecked
//	         -> Committed | Rejected
//
// Validation runs on a caller-provided scratch state: a rejected block
// leaves every committed structure untouched, and the returned undo
// journal lets the chain store roll the scratch back during
// reorganizations.
package blockproc

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/emission"
	"github.com/blocknet/go-blocknet/fee"
	"github.com/blocknet/go-blocknet/inter"
	"github.com/blocknet/go-blocknet/ledger"
)

var (
	// ErrBadParent is returned when a block doesn't extend the tip it
	// was validated against.
	ErrBadParent = errors.New("block parent mismatch")
	// ErrBadHeight is returned when the height isn't parent + 1.
	ErrBadHeight = errors.New("block height mismatch")
	// ErrBadTime is returned when the timestamp doesn't advance.
	ErrBadTime = errors.New("block time not after parent")
	// ErrTooLarge is returned when the encoded block exceeds the rules
	// size limit.
	ErrTooLarge = errors.New("block too large")
	// ErrTooManyTxs is returned when the tx count exceeds the rules
	// limit.
	ErrTooManyTxs = errors.New("too many transactions")
	// ErrBadCoinbase is returned when the declared coinbase differs
	// from reward + collected fees.
	ErrBadCoinbase = errors.New("coinbase mismatch")
	// ErrBadFeeChecksum is returned when the declared fee checksum
	// doesn't match the recomputed lane decomposition.
	ErrBadFeeChecksum = errors.New("fee checksum mismatch")
	// ErrSupplyExceeded is returned when committing would push total
	// emission past the cap.
	ErrSupplyExceeded = errors.New("supply cap exceeded")
)

// Status is the position of a block in the validation pipeline.
type Status uint8

const (
	Received Status = iota
	HeaderChecked
	TransactionsApplied
	SupplyChecked
	Committed
	Rejected
)

func (s Status) String() string {
	switch s {
	case Received:
		return "received"
	case HeaderChecked:
		return "header-checked"
	case TransactionsApplied:
		return "txs-applied"
	case SupplyChecked:
		return "supply-checked"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("status-%d", uint8(s))
	}
}

// SignatureChecker verifies transaction signatures. Signature schemes
// live outside the consensus core; the processor only requires a
// verdict.
type SignatureChecker interface {
	CheckSignature(tx *inter.Transaction) error
}

// Task tracks one block through the pipeline.
type Task struct {
	Block  *inter.Block
	Status Status
	Err    error
}

// Processor validates blocks against the network rules.
type Processor struct {
	rules blocknet.Rules
	sigs  SignatureChecker
	log   *logrus.Entry
}

// New creates a Processor. sigs may not be nil.
func New(rules blocknet.Rules, sigs SignatureChecker) *Processor {
	return &Processor{
		rules: rules,
		sigs:  sigs,
		log:   logrus.WithField("module", "blockproc"),
	}
}

// Process validates t.Block as the next block after bs, applying it to
// scratch. uniqueMiners is the distinct miner count of the recent window
// including this block's miner; the remaining activity inputs are
// derived from the block itself so every node computes the same reward.
//
// On success the task is Committed and the advanced BlockState plus the
// undo journal of every scratch mutation are returned. On failure the
// task is Rejected with the cause in t.Err, scratch is restored and bs
// is returned unchanged.
func (p *Processor) Process(t *Task, scratch *ledger.State, bs BlockState, uniqueMiners uint64) (BlockState, *ledger.Undo) {
	b := t.Block
	undo := ledger.NewUndo()

	reject := func(err error) (BlockState, *ledger.Undo) {
		undo.Revert(scratch)
		t.Status = Rejected
		t.Err = err
		p.log.WithFields(logrus.Fields{
			"height": b.Height,
			"hash":   b.Hash().String(),
			"stage":  t.Status.String(),
		}).WithError(err).Warn("block rejected")
		return bs, nil
	}

	if err := p.checkHeader(b, bs); err != nil {
		return reject(err)
	}
	t.Status = HeaderChecked

	var feeCT, feeIT, volume uint64
	for _, tx := range b.Txs {
		if err := p.sigs.CheckSignature(tx); err != nil {
			return reject(fmt.Errorf("tx %s: %w", tx.ID().String(), err))
		}
		ct, it, err := scratch.ApplyTx(tx, undo)
		if err != nil {
			return reject(fmt.Errorf("tx %s: %w", tx.ID().String(), err))
		}
		feeCT += ct
		feeIT += it
		volume += tx.Amount
	}
	if inter.FeeChecksumOf(feeCT, feeIT) != b.FeeChecksum {
		return reject(ErrBadFeeChecksum)
	}
	t.Status = TransactionsApplied

	activity := emission.NetworkActivity{
		TxCount:        uint64(len(b.Txs)),
		TxVolume:       volume,
		UniqueMiners:   uniqueMiners,
		BlockHeight:    b.Height,
		UtilizationPpm: p.utilizationPpm(b),
	}
	breakdown := emission.Compute(p.rules.Issuance, bs.Baselines, activity, bs.TotalEmission)

	totalFees := feeCT + feeIT
	if b.Coinbase != breakdown.Reward+totalFees {
		return reject(fmt.Errorf("%w: declared %d, want reward %d + fees %d",
			ErrBadCoinbase, b.Coinbase, breakdown.Reward, totalFees))
	}
	if breakdown.Reward > blocknet.MaxSupply-bs.TotalEmission {
		return reject(ErrSupplyExceeded)
	}
	if err := scratch.Credit(b.Miner, b.Coinbase, undo); err != nil {
		return reject(err)
	}
	t.Status = SupplyChecked

	next := bs.Copy()
	next.LastBlock = b.Height
	next.LastBlockHash = b.Hash()
	next.LastBlockTime = b.Time
	next.TotalEmission += breakdown.Reward
	next.FeeLanes = next.FeeLanes.Add(feeCT, feeIT)
	if p.rules.Upgrades.AdaptiveIssuance {
		next.Baselines = next.Baselines.Update(p.rules.Issuance, activity)
	}
	t.Status = Committed

	p.log.WithFields(logrus.Fields{
		"height":   b.Height,
		"hash":     b.Hash().String(),
		"txs":      len(b.Txs),
		"reward":   breakdown.Reward,
		"fees":     totalFees,
		"emission": next.TotalEmission,
	}).Debug("block committed")
	return next, undo
}

// Assemble builds the next block after bs from the given transactions,
// filling in the consensus fields (coinbase, fee checksum) exactly the
// way Process will re-derive them. The transactions are not validated
// against any state here; an assembled block can still be rejected.
func (p *Processor) Assemble(bs BlockState, miner common.Address, now inter.Timestamp, txs []*inter.Transaction, uniqueMiners uint64) (*inter.Block, error) {
	var feeCT, feeIT, volume uint64
	for _, tx := range txs {
		ct, it, err := fee.Decompose(tx.FeeSelector, tx.Fee)
		if err != nil {
			return nil, err
		}
		feeCT += ct
		feeIT += it
		volume += tx.Amount
	}

	b := &inter.Block{
		ParentHash:  bs.LastBlockHash,
		Height:      bs.LastBlock + 1,
		Time:        now,
		Miner:       miner,
		Txs:         txs,
		FeeChecksum: inter.FeeChecksumOf(feeCT, feeIT),
	}
	activity := emission.NetworkActivity{
		TxCount:        uint64(len(txs)),
		TxVolume:       volume,
		UniqueMiners:   uniqueMiners,
		BlockHeight:    b.Height,
		UtilizationPpm: p.utilizationPpm(b),
	}
	reward := emission.BlockReward(p.rules.Issuance, bs.Baselines, activity, bs.TotalEmission)
	b.Coinbase = reward + feeCT + feeIT
	return b, nil
}

func (p *Processor) checkHeader(b *inter.Block, bs BlockState) error {
	if b.ParentHash != bs.LastBlockHash {
		return ErrBadParent
	}
	if b.Height != bs.LastBlock+1 {
		return ErrBadHeight
	}
	if b.Time <= bs.LastBlockTime {
		return ErrBadTime
	}
	if uint64(b.EstimateSize()) > p.rules.Blocks.MaxBlockSize {
		return ErrTooLarge
	}
	if uint32(len(b.Txs)) > p.rules.Blocks.MaxTxsPerBlock {
		return ErrTooManyTxs
	}
	return nil
}

func (p *Processor) utilizationPpm(b *inter.Block) uint32 {
	if p.rules.Blocks.MaxBlockSize == 0 {
		return 0
	}
	u := uint64(b.EstimateSize()) * blocknet.PpmUnit / p.rules.Blocks.MaxBlockSize
	if u > blocknet.PpmUnit {
		u = blocknet.PpmUnit
	}
	return uint32(u)
}
