// Package genesis derives the deterministic genesis block and initial
// ledger state of a network from its rules. There are no hardcoded
// genesis hashes anywhere: every node recomputes the genesis from the
// rules it runs with, and the block's parent hash commits to those
// rules, so two nodes with any differing consensus parameter disagree
// on the genesis hash and cannot follow each other's chain.
package genesis

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/inter"
	"github.com/blocknet/go-blocknet/ledger"
	"github.com/blocknet/go-blocknet/txsigner"
)

// FakeNet development accounts.
const (
	FakeAccountsNum    = 10
	FakeAccountBalance = uint64(1_000_000_000) // 1000 BLOCK each
	fakeKeyTag         = "BLOCK_FAKE"
)

// Block assembles the genesis block for the given rules. The parent hash
// is the rules commitment; the coinbase records the pre-allocated
// emission so the supply audit covers genesis funds.
func Block(rules blocknet.Rules) (*inter.Block, error) {
	commitment, err := rules.Commitment()
	if err != nil {
		return nil, err
	}
	var preallocated uint64
	for _, balance := range Accounts(rules) {
		preallocated += balance
	}
	return &inter.Block{
		ParentHash:  commitment,
		Height:      0,
		Time:        0,
		Miner:       common.Address{},
		Txs:         nil,
		Coinbase:    preallocated,
		FeeChecksum: inter.FeeChecksumOf(0, 0),
	}, nil
}

// Hash returns the genesis block hash for the given rules.
func Hash(rules blocknet.Rules) (common.Hash, error) {
	b, err := Block(rules)
	if err != nil {
		return common.Hash{}, err
	}
	return b.Hash(), nil
}

// State builds the initial ledger state and returns it together with the
// pre-allocated emission (the genesis coinbase).
func State(rules blocknet.Rules) (*ledger.State, uint64, error) {
	s := ledger.NewState()
	var emitted uint64
	for addr, balance := range Accounts(rules) {
		if err := s.Credit(addr, balance, nil); err != nil {
			return nil, 0, err
		}
		emitted += balance
	}
	return s, emitted, nil
}

// Accounts returns the genesis balance allocations. Main and test
// networks start empty, all supply entering through block rewards.
// FakeNet seeds a fixed set of development accounts.
func Accounts(rules blocknet.Rules) map[common.Address]uint64 {
	if rules.NetworkID != blocknet.FakeNetworkID {
		return nil
	}
	accs := make(map[common.Address]uint64, FakeAccountsNum)
	for i := 0; i < FakeAccountsNum; i++ {
		accs[FakeAddress(i)] = FakeAccountBalance
	}
	return accs
}

// FakeKey derives the i-th deterministic development signing key. The
// keys are public knowledge; FakeNet funds are worthless outside local
// testing.
func FakeKey(i int) ed25519.PrivateKey {
	data := make([]byte, 0, len(fakeKeyTag)+4)
	data = append(data, fakeKeyTag...)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(i))
	data = append(data, buf[:]...)
	return ed25519.NewKeyFromSeed(crypto.Keccak256(data))
}

// FakeAddress returns the address of the i-th development key.
func FakeAddress(i int) common.Address {
	var pub [32]byte
	copy(pub[:], FakeKey(i).Public().(ed25519.PublicKey))
	return txsigner.AddressOf(pub)
}

// Check recomputes the genesis hash from rules and compares it against
// got. Run at startup against the stored chain to catch a node booting
// an existing database with mismatched rules.
func Check(rules blocknet.Rules, got common.Hash) error {
	want, err := Hash(rules)
	if err != nil {
		return err
	}
	if want != got {
		return fmt.Errorf("genesis mismatch: have %s, rules require %s (network %s/%d)",
			got.String(), want.String(), rules.Name, rules.NetworkID)
	}
	return nil
}
