// Package blocknet defines the network rules and configuration parameters
// for the BlockNet ledger.
//
// This package provides:
//   - Network identification constants (MainNet, TestNet, FakeNet)
//   - The global supply cap, the only hard-coded consensus constant
//   - Issuance rules: baselines and multiplier bounds for the
//     activity-driven block reward formula
//   - Block production limits and economic parameters
//
// The Rules type is the central configuration structure for a given
// BlockNet deployment. Everything in it except MaxSupply is
// governance-adjustable, which is why the issuance formula clamps its
// output defensively instead of trusting the baselines algebraically.
package blocknet

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/blocknet/go-blocknet/inter"
)

// Network identification constants.
const (
	// MainNetworkID is the chain ID of the BlockNet mainnet.
	MainNetworkID uint64 = 0xb10c

	// TestNetworkID is the chain ID of the public testnet.
	TestNetworkID uint64 = 0xb10c2

	// FakeNetworkID is the chain ID for local/fake networks used in
	// development and testing.
	FakeNetworkID uint64 = 0xb10c3
)

// MaxSupply is the hard cap on total issuable BLOCK, in 6-decimal
// sub-units (40M BLOCK). It is the single fixed consensus constant:
// total emission may approach it asymptotically but never exceed it.
const MaxSupply uint64 = 40_000_000_000_000

// PpmUnit is the denominator for all parts-per-million rule fields.
// Ratios and multiplier bounds are carried as integers so no rule value
// ever passes through floating point.
const PpmUnit uint64 = 1_000_000

// rulesDomainTag separates the rules commitment from other hash domains.
var rulesDomainTag = []byte("BLOCK_RULES")

// RulesRLP is the RLP-serializable version of Rules. Its encoding is the
// canonical rules commitment: the genesis hash binds to it, so any change
// to an RLP-visible field is a hard fork. The Upgrades field is excluded
// from the encoding.
type RulesRLP struct {
	Name      string
	NetworkID uint64

	// Issuance options - block reward formula parameters
	Issuance IssuanceRules

	// Blockchain options - block production limits
	Blocks BlocksRules

	// Economy options - fee floor and related parameters
	Economy EconomyRules

	// Upgrades - feature flags (not RLP-encoded)
	Upgrades Upgrades `rlp:"-"`
}

// Rules describes the complete configuration of a BlockNet network.
type Rules (RulesRLP)

// IssuanceRules parameterizes the network-activity-driven block reward.
// All baselines are denominated in the same units as the corresponding
// NetworkActivity fields; multiplier bounds are ppm.
type IssuanceRules struct {
	// ExpectedTotalBlocks is the number of blocks over which 90% of the
	// supply cap is distributed at baseline activity.
	ExpectedTotalBlocks uint64

	// BaselineTxCount is the per-epoch transaction count that yields a
	// neutral (1.0x) activity multiplier.
	BaselineTxCount uint64

	// BaselineTxVolume is the per-epoch transfer volume for a neutral
	// activity multiplier, in BLOCK sub-units.
	BaselineTxVolume uint64

	// BaselineMiners is the unique-miner count for a neutral
	// decentralization factor.
	BaselineMiners uint64

	// Activity multiplier clamp range, ppm.
	ActivityMinPpm uint64
	ActivityMaxPpm uint64

	// Decentralization factor clamp range, ppm.
	DecentralizationMinPpm uint64
	DecentralizationMaxPpm uint64

	// Adaptive baseline EMA configuration. Active only when the
	// AdaptiveIssuance upgrade flag is set.
	AdaptiveAlphaPpm uint64
	BaselineBounds   BaselineBounds
}

// BaselineBounds limits adaptive baseline drift.
type BaselineBounds struct {
	MinTxCount  uint64
	MaxTxCount  uint64
	MinTxVolume uint64
	MaxTxVolume uint64
	MinMiners   uint64
	MaxMiners   uint64
}

// BlocksRules contains block production and validation limits.
type BlocksRules struct {
	// MaxBlockSize is the hard limit on the encoded block size in bytes.
	MaxBlockSize uint64

	// MaxTxsPerBlock bounds the transaction count of a single block.
	MaxTxsPerBlock uint32

	// MaxEmptyBlockSkipPeriod is the longest a miner may withhold an
	// empty block.
	MaxEmptyBlockSkipPeriod inter.Timestamp
}

// EconomyRules contains economic parameters outside the issuance formula.
type EconomyRules struct {
	// MinFee is the minimum raw fee (in sub-units) accepted into a
	// block. Transactions below the floor are rejected at admission.
	MinFee *big.Int
}

// Upgrades tracks which protocol features are enabled for a network.
type Upgrades struct {
	// AdaptiveIssuance enables EMA baseline adaptation in the issuance
	// formula. When false, static baselines from IssuanceRules apply.
	AdaptiveIssuance bool

	// LaneAudit exposes the derived consumer/industrial lane view for
	// auditing. It never affects validation: the unified balance is the
	// only source of truth.
	LaneAudit bool
}

// MainNetRules returns the production network configuration.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Issuance:  DefaultIssuanceRules(),
		Economy:   DefaultEconomyRules(),
		Blocks: BlocksRules{
			MaxBlockSize:            2 * 1024 * 1024,
			MaxTxsPerBlock:          10000,
			MaxEmptyBlockSkipPeriod: inter.Timestamp((1 * time.Minute) / time.Millisecond),
		},
		Upgrades: Upgrades{
			AdaptiveIssuance: true,
			LaneAudit:        false,
		},
	}
}

// TestNetRules returns the public testnet configuration. Same economics
// as mainnet for realistic testing.
func TestNetRules() Rules {
	r := MainNetRules()
	r.Name = "test"
	r.NetworkID = TestNetworkID
	r.Upgrades.LaneAudit = true
	return r
}

// FakeNetRules returns the local/fake network configuration with
// accelerated parameters:
//   - 1/100 of the expected block count, so emission visibly decays
//   - fast EMA adaptation
//   - short empty-block skip period
func FakeNetRules() Rules {
	r := MainNetRules()
	r.Name = "fake"
	r.NetworkID = FakeNetworkID
	r.Issuance = FakeNetIssuanceRules()
	r.Blocks.MaxEmptyBlockSkipPeriod = inter.Timestamp((3 * time.Second) / time.Millisecond)
	r.Upgrades = Upgrades{
		AdaptiveIssuance: true,
		LaneAudit:        true,
	}
	return r
}

// DefaultIssuanceRules returns the mainnet issuance configuration.
func DefaultIssuanceRules() IssuanceRules {
	return IssuanceRules{
		// ~20M blocks to distribute 90% of the cap
		ExpectedTotalBlocks: 20_000_000,
		// bootstrap baselines; adaptive EMA takes over from here
		BaselineTxCount:  100,
		BaselineTxVolume: 10_000_000_000, // 10k BLOCK
		BaselineMiners:   10,
		// activity may halve or double the reward
		ActivityMinPpm: 500_000,
		ActivityMaxPpm: 2_000_000,
		// decentralization may scale it by 0.5x..1.5x
		DecentralizationMinPpm: 500_000,
		DecentralizationMaxPpm: 1_500_000,
		// ~20-epoch smoothing
		AdaptiveAlphaPpm: 50_000,
		BaselineBounds: BaselineBounds{
			MinTxCount:  50,
			MaxTxCount:  10_000,
			MinTxVolume: 5_000_000_000,
			MaxTxVolume: 1_000_000_000_000,
			MinMiners:   5,
			MaxMiners:   100,
		},
	}
}

// FakeNetIssuanceRules returns accelerated issuance for local networks.
func FakeNetIssuanceRules() IssuanceRules {
	cfg := DefaultIssuanceRules()
	cfg.ExpectedTotalBlocks /= 100
	cfg.AdaptiveAlphaPpm = 200_000 // 5-epoch smoothing
	return cfg
}

// DefaultEconomyRules returns the mainnet economy configuration.
func DefaultEconomyRules() EconomyRules {
	return EconomyRules{
		MinFee: big.NewInt(100), // 0.0001 BLOCK
	}
}

// Copy creates a deep copy of Rules. Required because EconomyRules holds
// a *big.Int that a shallow copy would share.
func (r Rules) Copy() Rules {
	cp := r
	cp.Economy.MinFee = new(big.Int).Set(r.Economy.MinFee)
	return cp
}

// CanonicalBytes returns the RLP encoding of the rules, the byte string
// the genesis hash commits to.
func (r Rules) CanonicalBytes() ([]byte, error) {
	return rlp.EncodeToBytes(RulesRLP(r))
}

// Commitment hashes the canonical rules encoding under its own domain
// tag. Two networks with any differing RLP-visible rule field produce
// different commitments, hence different genesis hashes.
func (r Rules) Commitment() (common.Hash, error) {
	enc, err := r.CanonicalBytes()
	if err != nil {
		return common.Hash{}, err
	}
	data := make([]byte, 0, len(rulesDomainTag)+len(enc))
	data = append(data, rulesDomainTag...)
	data = append(data, enc...)
	return crypto.Keccak256Hash(data), nil
}

// String returns a JSON representation for logging and debugging.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
