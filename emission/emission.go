// Package emission implements the block reward formula. The reward for a
// block is the product of four factors:
//
//	base             90% of the supply cap spread over the expected
//	                 block count
//	activity         sqrt(txRatio) * sqrt(volumeRatio) * (1+utilization),
//	                 clamped to the configured range
//	decentralization sqrt(minerRatio), clamped to the configured range
//	decay            (MaxSupply - totalEmission) / MaxSupply
//
// All arithmetic is integer-only Q32.32 fixed point over math/big. Two
// nodes computing the reward for the same inputs must agree bit for bit,
// so no float ever enters the pipeline. Ratios against zero baselines
// evaluate to the neutral 1.0.
//
// Whatever the factors produce, the reward is clamped so total emission
// never exceeds blocknet.MaxSupply.
package emission

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/blocknet/go-blocknet/blocknet"
)

// fracBits is the fractional precision of the fixed-point pipeline.
const fracBits = 32

var (
	fixedOne  = new(big.Int).Lsh(big.NewInt(1), fracBits)
	fixedHalf = new(big.Int).Lsh(big.NewInt(1), fracBits-1)
	fracMask  = new(big.Int).Sub(fixedOne, big.NewInt(1))
)

// NetworkActivity is the per-epoch activity snapshot the reward formula
// consumes. It is derived deterministically from the recent chain, so
// every node observes identical values at the same height.
type NetworkActivity struct {
	// TxCount is the number of transactions in the measurement window.
	TxCount uint64

	// TxVolume is the total transferred amount in the window, in
	// BLOCK sub-units.
	TxVolume uint64

	// UniqueMiners is the count of distinct block miners in the window.
	UniqueMiners uint64

	// BlockHeight is the height the reward is computed for.
	BlockHeight idx.Block

	// UtilizationPpm is network capacity utilization in parts per
	// million of full capacity.
	UtilizationPpm uint32
}

// Baselines are the reference activity levels that yield neutral
// multipliers. They live in consensus state: when adaptive issuance is
// enabled they track observed activity via EMA, bounded by the rules.
type Baselines struct {
	TxCount  uint64
	TxVolume uint64
	Miners   uint64
}

// BaselinesFromRules returns the bootstrap baselines of a network.
func BaselinesFromRules(cfg blocknet.IssuanceRules) Baselines {
	return Baselines{
		TxCount:  cfg.BaselineTxCount,
		TxVolume: cfg.BaselineTxVolume,
		Miners:   cfg.BaselineMiners,
	}
}

// Update advances the baselines toward the observed activity by the
// configured EMA step. The result is clamped into the rule bounds so a
// burst epoch cannot drag the baseline arbitrarily far.
func (b Baselines) Update(cfg blocknet.IssuanceRules, obs NetworkActivity) Baselines {
	bounds := cfg.BaselineBounds
	return Baselines{
		TxCount:  ema(b.TxCount, obs.TxCount, cfg.AdaptiveAlphaPpm, bounds.MinTxCount, bounds.MaxTxCount),
		TxVolume: ema(b.TxVolume, obs.TxVolume, cfg.AdaptiveAlphaPpm, bounds.MinTxVolume, bounds.MaxTxVolume),
		Miners:   ema(b.Miners, obs.UniqueMiners, cfg.AdaptiveAlphaPpm, bounds.MinMiners, bounds.MaxMiners),
	}
}

// ema moves old toward obs by alphaPpm/1e6 of the difference, then clamps
// into [min, max]. The step is computed in two parts to avoid uint64
// overflow on large volume differences, and is floored at 1 so
// small-valued baselines (miner counts) still converge instead of
// stalling on integer truncation.
func ema(old, obs, alphaPpm, min, max uint64) uint64 {
	next := old
	if obs >= old {
		next = old + emaStep(obs-old, alphaPpm)
	} else {
		next = old - emaStep(old-obs, alphaPpm)
	}
	if next < min {
		next = min
	}
	if next > max {
		next = max
	}
	return next
}

func emaStep(delta, alphaPpm uint64) uint64 {
	step := delta/blocknet.PpmUnit*alphaPpm + delta%blocknet.PpmUnit*alphaPpm/blocknet.PpmUnit
	if step == 0 && delta > 0 && alphaPpm > 0 {
		step = 1
	}
	return step
}

// Breakdown carries the reward and the intermediate factors, ppm-scaled
// for observability.
type Breakdown struct {
	// BasePerBlock is the raw per-block emission before multipliers.
	BasePerBlock uint64

	// ActivityPpm is the clamped activity multiplier, ppm.
	ActivityPpm uint64

	// DecentralizationPpm is the clamped decentralization factor, ppm.
	DecentralizationPpm uint64

	// DecayPpm is the supply decay factor, ppm.
	DecayPpm uint64

	// Reward is the final block reward in sub-units.
	Reward uint64
}

// BlockReward computes the reward for a block given the network rules,
// the current baselines and the observed activity. totalEmission is the
// cumulative emission before this block.
func BlockReward(cfg blocknet.IssuanceRules, b Baselines, a NetworkActivity, totalEmission uint64) uint64 {
	return Compute(cfg, b, a, totalEmission).Reward
}

// Compute is BlockReward with the intermediate factors exposed.
func Compute(cfg blocknet.IssuanceRules, b Baselines, a NetworkActivity, totalEmission uint64) Breakdown {
	if totalEmission >= blocknet.MaxSupply {
		return Breakdown{}
	}
	remaining := blocknet.MaxSupply - totalEmission

	base := basePerBlock(cfg)
	activity := activityMultiplier(cfg, b, a)
	decentralization := decentralizationFactor(cfg, b, a)
	decay := fixedRatio(remaining, blocknet.MaxSupply)

	// base * activity * decentralization * decay, all Q32.32
	rw := new(big.Int).SetUint64(base)
	rw.Lsh(rw, fracBits)
	rw = mulFixed(rw, activity)
	rw = mulFixed(rw, decentralization)
	rw = mulFixed(rw, decay)

	var reward uint64
	if base > 0 {
		reward = roundReward(rw, remaining)
		if reward > remaining {
			reward = remaining
		}
	}

	return Breakdown{
		BasePerBlock:        base,
		ActivityPpm:         fixedToPpm(activity),
		DecentralizationPpm: fixedToPpm(decentralization),
		DecayPpm:            fixedToPpm(decay),
		Reward:              reward,
	}
}

// basePerBlock spreads 90% of the cap over the expected block count. The
// remaining 10% stays reachable only through sustained above-baseline
// activity.
func basePerBlock(cfg blocknet.IssuanceRules) uint64 {
	if cfg.ExpectedTotalBlocks == 0 {
		return 0
	}
	return blocknet.MaxSupply / 10 * 9 / cfg.ExpectedTotalBlocks
}

func activityMultiplier(cfg blocknet.IssuanceRules, b Baselines, a NetworkActivity) *big.Int {
	txPart := fixedSqrt(fixedRatio(a.TxCount, b.TxCount))
	volPart := fixedSqrt(fixedRatio(a.TxVolume, b.TxVolume))

	util := new(big.Int).Add(fixedOne, ppmToFixed(uint64(a.UtilizationPpm)))

	m := mulFixed(txPart, volPart)
	m = mulFixed(m, util)
	return clampFixed(m, cfg.ActivityMinPpm, cfg.ActivityMaxPpm)
}

func decentralizationFactor(cfg blocknet.IssuanceRules, b Baselines, a NetworkActivity) *big.Int {
	d := fixedSqrt(fixedRatio(a.UniqueMiners, b.Miners))
	return clampFixed(d, cfg.DecentralizationMinPpm, cfg.DecentralizationMaxPpm)
}

// roundReward converts the Q32.32 reward to sub-units. Far from the cap
// the fractional part rounds up and the reward is floored at 1, so the
// chain keeps paying miners. Inside the last 1% of supply it switches to
// half-up rounding, letting the reward reach exact zero at the cap.
func roundReward(rw *big.Int, remaining uint64) uint64 {
	intPart := new(big.Int).Rsh(rw, fracBits)
	frac := new(big.Int).And(rw, fracMask)

	reward := intPart.Uint64()
	if remaining > blocknet.MaxSupply/100 {
		if frac.Sign() > 0 {
			reward++
		}
		if reward == 0 {
			reward = 1
		}
		return reward
	}
	if frac.Cmp(fixedHalf) >= 0 {
		reward++
	}
	return reward
}

// fixedRatio returns num/den in Q32.32. A zero denominator yields the
// neutral 1.0.
func fixedRatio(num, den uint64) *big.Int {
	if den == 0 {
		return new(big.Int).Set(fixedOne)
	}
	r := new(big.Int).SetUint64(num)
	r.Lsh(r, fracBits)
	return r.Div(r, new(big.Int).SetUint64(den))
}

// fixedSqrt returns sqrt(x) for Q32.32 x, in Q32.32.
func fixedSqrt(x *big.Int) *big.Int {
	s := new(big.Int).Lsh(x, fracBits)
	return s.Sqrt(s)
}

func mulFixed(a, b *big.Int) *big.Int {
	m := new(big.Int).Mul(a, b)
	return m.Rsh(m, fracBits)
}

func ppmToFixed(ppm uint64) *big.Int {
	f := new(big.Int).SetUint64(ppm)
	f.Lsh(f, fracBits)
	return f.Div(f, new(big.Int).SetUint64(blocknet.PpmUnit))
}

func fixedToPpm(f *big.Int) uint64 {
	p := new(big.Int).Mul(f, new(big.Int).SetUint64(blocknet.PpmUnit))
	p.Rsh(p, fracBits)
	return p.Uint64()
}

func clampFixed(x *big.Int, minPpm, maxPpm uint64) *big.Int {
	min := ppmToFixed(minPpm)
	max := ppmToFixed(maxPpm)
	if x.Cmp(min) < 0 {
		return min
	}
	if x.Cmp(max) > 0 {
		return max
	}
	return x
}
