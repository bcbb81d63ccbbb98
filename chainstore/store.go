// Package chainstore owns the canonical chain: blocks, ledger state and
// consensus bookkeeping behind a single-writer lock. Readers get
// consistent point-in-time snapshots; writers extend the tip or import
// competing segments.
//
// A reorganization never mutates the committed state in place. The store
// rolls a scratch copy back to the common ancestor using per-block undo
// journals, validates the competing segment forward on the scratch, and
// only then swaps it in atomically. Any failure, including context
// cancellation, leaves the prior tip byte-identical.
package chainstore

import (
	"context"
	"errors"
	"sync"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/blocknet/genesis"
	"github.com/blocknet/go-blocknet/blockproc"
	"github.com/blocknet/go-blocknet/emission"
	"github.com/blocknet/go-blocknet/forkchoice"
	"github.com/blocknet/go-blocknet/inter"
	"github.com/blocknet/go-blocknet/ledger"
)

// minerWindow is the number of trailing blocks over which unique miners
// are counted for the issuance decentralization factor.
const minerWindow = 10

var (
	// ErrUnknownParent is returned when an imported segment doesn't
	// attach to any canonical block.
	ErrUnknownParent = errors.New("segment parent unknown")
	// ErrNotContiguous is returned when an imported segment's blocks
	// don't chain to each other.
	ErrNotContiguous = errors.New("segment not contiguous")
	// ErrWorseChain is returned when an imported segment doesn't win
	// fork choice against the current tip.
	ErrWorseChain = errors.New("segment loses fork choice")
	// ErrEmptySegment is returned for zero-length imports.
	ErrEmptySegment = errors.New("empty segment")
)

// Store is the canonical chain.
type Store struct {
	mu    sync.RWMutex
	rules blocknet.Rules
	proc  *blockproc.Processor
	log   *logrus.Entry

	blocks map[common.Hash]*inter.Block
	chain  []common.Hash          // height -> canonical hash
	states []blockproc.BlockState // height -> consensus state after that block
	undos  []*ledger.Undo         // height -> journal of that block (nil at genesis)
	state  *ledger.State
}

// New boots a store at genesis for the given rules.
func New(rules blocknet.Rules, sigs blockproc.SignatureChecker) (*Store, error) {
	gb, err := genesis.Block(rules)
	if err != nil {
		return nil, err
	}
	st, emitted, err := genesis.State(rules)
	if err != nil {
		return nil, err
	}

	gh := gb.Hash()
	bs := blockproc.BlockState{
		LastBlock:     0,
		LastBlockHash: gh,
		LastBlockTime: gb.Time,
		TotalEmission: emitted,
		Baselines:     emission.BaselinesFromRules(rules.Issuance),
	}
	return &Store{
		rules:  rules,
		proc:   blockproc.New(rules, sigs),
		log:    logrus.WithField("module", "chainstore"),
		blocks: map[common.Hash]*inter.Block{gh: gb},
		chain:  []common.Hash{gh},
		states: []blockproc.BlockState{bs},
		undos:  []*ledger.Undo{nil},
		state:  st,
	}, nil
}

// Rules returns the network rules the store was booted with.
func (s *Store) Rules() blocknet.Rules {
	return s.rules
}

// Tip returns the canonical tip height and hash.
func (s *Store) Tip() (idx.Block, common.Hash) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bs := s.states[len(s.states)-1]
	return bs.LastBlock, bs.LastBlockHash
}

// Weight returns the fork choice weight of the canonical chain.
func (s *Store) Weight() forkchoice.Weight {
	h, hash := s.Tip()
	return forkchoice.Weight{Height: h, TipHash: hash}
}

// GenesisHash returns the hash of the genesis block.
func (s *Store) GenesisHash() common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain[0]
}

// BlockByHeight returns the canonical block at height h, or nil.
func (s *Store) BlockByHeight(h idx.Block) *inter.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if uint64(h) >= uint64(len(s.chain)) {
		return nil
	}
	return s.blocks[s.chain[h]]
}

// BlockByHash returns the canonical block with the given hash, or nil.
func (s *Store) BlockByHash(hash common.Hash) *inter.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[hash]
}

// GetAccount reads an account from the committed state.
func (s *Store) GetAccount(addr common.Address) ledger.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Account(addr)
}

// TotalEmission returns all BLOCK minted so far, genesis included.
func (s *Store) TotalEmission() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[len(s.states)-1].TotalEmission
}

// Snapshot is an immutable point-in-time view of the chain. It shares
// nothing with the live store: readers may hold it across reorgs.
type Snapshot struct {
	Height    idx.Block
	TipHash   common.Hash
	State     *ledger.State
	Consensus blockproc.BlockState
}

// Snapshot captures the current committed chain position.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bs := s.states[len(s.states)-1]
	return &Snapshot{
		Height:    bs.LastBlock,
		TipHash:   bs.LastBlockHash,
		State:     s.state.Copy(),
		Consensus: bs,
	}
}

// Mine assembles and commits the next canonical block from the given
// transactions. Intended for local block production; the assembled block
// passes through the same validation pipeline as received ones.
func (s *Store) Mine(miner common.Address, now inter.Timestamp, txs []*inter.Transaction) (*inter.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bs := s.states[len(s.states)-1]
	b, err := s.proc.Assemble(bs, miner, now, txs, s.windowMinersLocked(s.chain, nil, miner))
	if err != nil {
		return nil, err
	}
	if err := s.addBlockLocked(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBlock validates b as the next canonical block and commits it.
func (s *Store) AddBlock(b *inter.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBlockLocked(b)
}

func (s *Store) addBlockLocked(b *inter.Block) error {
	bs := s.states[len(s.states)-1]
	task := &blockproc.Task{Block: b}
	next, undo := s.proc.Process(task, s.state, bs, s.windowMinersLocked(s.chain, nil, b.Miner))
	if task.Status != blockproc.Committed {
		return task.Err
	}

	hash := b.Hash()
	s.blocks[hash] = b
	s.chain = append(s.chain, hash)
	s.states = append(s.states, next)
	s.undos = append(s.undos, undo)
	return nil
}

// ImportChain validates a competing contiguous segment and, when it wins
// fork choice, reorganizes onto it. The whole import is atomic: any
// rejected block, or ctx cancellation before the swap, leaves the
// current chain untouched and returns the cause.
func (s *Store) ImportChain(ctx context.Context, segment []*inter.Block) error {
	if len(segment) == 0 {
		return ErrEmptySegment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 1; i < len(segment); i++ {
		if segment[i].ParentHash != segment[i-1].Hash() {
			return ErrNotContiguous
		}
	}

	first := segment[0]
	if uint64(first.Height) == 0 || uint64(first.Height) > uint64(len(s.chain)) {
		return ErrUnknownParent
	}
	ancestor := uint64(first.Height) - 1
	if s.chain[ancestor] != first.ParentHash {
		return ErrUnknownParent
	}

	// skip the prefix that is already canonical
	for len(segment) > 0 && uint64(segment[0].Height) < uint64(len(s.chain)) &&
		s.chain[segment[0].Height] == segment[0].Hash() {
		ancestor = uint64(segment[0].Height)
		segment = segment[1:]
	}
	if len(segment) == 0 {
		return nil // nothing new
	}

	tip := s.states[len(s.states)-1]
	current := forkchoice.Weight{Height: tip.LastBlock, TipHash: tip.LastBlockHash}
	last := segment[len(segment)-1]
	candidate := forkchoice.Weight{Height: last.Height, TipHash: last.Hash()}
	if !forkchoice.Better(current, candidate) {
		return ErrWorseChain
	}

	// roll a scratch copy back to the common ancestor
	scratch := s.state.Copy()
	for h := uint64(len(s.chain)) - 1; h > ancestor; h-- {
		s.undos[h].Revert(scratch)
	}

	// validate the segment forward on the scratch
	newChain := append([]common.Hash(nil), s.chain[:ancestor+1]...)
	newStates := append([]blockproc.BlockState(nil), s.states[:ancestor+1]...)
	newUndos := append([]*ledger.Undo(nil), s.undos[:ancestor+1]...)
	newBlocks := make(map[common.Hash]*inter.Block, len(segment))

	for _, b := range segment {
		if err := ctx.Err(); err != nil {
			return err
		}
		bs := newStates[len(newStates)-1]
		task := &blockproc.Task{Block: b}
		next, undo := s.proc.Process(task, scratch, bs, s.windowMinersLocked(newChain, newBlocks, b.Miner))
		if task.Status != blockproc.Committed {
			return task.Err
		}
		hash := b.Hash()
		newBlocks[hash] = b
		newChain = append(newChain, hash)
		newStates = append(newStates, next)
		newUndos = append(newUndos, undo)
	}

	// atomic swap
	depth := uint64(len(s.chain)) - 1 - ancestor
	for h := ancestor + 1; h < uint64(len(s.chain)); h++ {
		delete(s.blocks, s.chain[h])
	}
	for hash, b := range newBlocks {
		s.blocks[hash] = b
	}
	s.chain = newChain
	s.states = newStates
	s.undos = newUndos
	s.state = scratch

	if depth > 0 {
		s.log.WithFields(logrus.Fields{
			"depth":   depth,
			"height":  candidate.Height,
			"new_tip": candidate.TipHash.String(),
			"old_tip": current.TipHash.String(),
		}).Warn("chain reorganized")
	}
	return nil
}

// windowMinersLocked counts distinct miners over the trailing window of
// the given chain plus the candidate miner. extra supplies blocks not
// yet in the committed index (a segment being imported).
func (s *Store) windowMinersLocked(chain []common.Hash, extra map[common.Hash]*inter.Block, candidate common.Address) uint64 {
	seen := map[common.Address]bool{candidate: true}
	start := 1 // genesis has no miner
	if len(chain) > minerWindow {
		start = len(chain) - minerWindow
	}
	for i := start; i < len(chain); i++ {
		b, ok := s.blocks[chain[i]]
		if !ok {
			b, ok = extra[chain[i]]
		}
		if ok {
			seen[b.Miner] = true
		}
	}
	return uint64(len(seen))
}
