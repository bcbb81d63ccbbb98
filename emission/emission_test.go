package emission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blocknet/go-blocknet/blocknet"
)

// defaults: base = 40e12 * 0.9 / 20e6
const defaultBase = uint64(1_800_000)

func baselineActivity(cfg blocknet.IssuanceRules) NetworkActivity {
	return NetworkActivity{
		TxCount:      cfg.BaselineTxCount,
		TxVolume:     cfg.BaselineTxVolume,
		UniqueMiners: cfg.BaselineMiners,
	}
}

func TestBaselineReward(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	got := Compute(cfg, b, baselineActivity(cfg), 0)
	require.Equal(defaultBase, got.BasePerBlock)
	require.Equal(uint64(1_000_000), got.ActivityPpm)
	require.Equal(uint64(1_000_000), got.DecentralizationPpm)
	require.Equal(uint64(1_000_000), got.DecayPpm)
	require.Equal(defaultBase, got.Reward)
}

func TestActivityBoostCapped(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	a := baselineActivity(cfg)
	a.TxCount *= 100
	a.TxVolume *= 100

	got := Compute(cfg, b, a, 0)
	require.Equal(cfg.ActivityMaxPpm, got.ActivityPpm, "100x activity must clamp at the cap")
	require.Equal(2*defaultBase, got.Reward)
}

func TestLowActivityFloor(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	a := baselineActivity(cfg)
	a.TxCount = 0
	a.TxVolume = 0

	got := Compute(cfg, b, a, 0)
	require.Equal(cfg.ActivityMinPpm, got.ActivityPpm)
	require.Equal(defaultBase/2, got.Reward)
}

func TestUtilizationScalesActivity(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	a := baselineActivity(cfg)
	a.UtilizationPpm = 1_000_000 // saturated network

	got := Compute(cfg, b, a, 0)
	require.Equal(uint64(2_000_000), got.ActivityPpm)
	require.Equal(2*defaultBase, got.Reward)
}

func TestDecentralizationFactor(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	// 4x the baseline miners: sqrt(4)=2.0, clamped to 1.5
	a := baselineActivity(cfg)
	a.UniqueMiners = 4 * cfg.BaselineMiners
	got := Compute(cfg, b, a, 0)
	require.Equal(cfg.DecentralizationMaxPpm, got.DecentralizationPpm)
	require.Equal(defaultBase*3/2, got.Reward)

	// no miner diversity floors at 0.5
	a.UniqueMiners = 0
	got = Compute(cfg, b, a, 0)
	require.Equal(cfg.DecentralizationMinPpm, got.DecentralizationPpm)
	require.Equal(defaultBase/2, got.Reward)
}

func TestSupplyDecay(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)
	a := baselineActivity(cfg)

	got := Compute(cfg, b, a, blocknet.MaxSupply/2)
	require.Equal(uint64(500_000), got.DecayPpm)
	require.Equal(defaultBase/2, got.Reward)

	// reward shrinks monotonically as emission accumulates
	prev := BlockReward(cfg, b, a, 0)
	for _, emitted := range []uint64{
		blocknet.MaxSupply / 4,
		blocknet.MaxSupply / 2,
		blocknet.MaxSupply * 3 / 4,
		blocknet.MaxSupply - blocknet.MaxSupply/100,
	} {
		rw := BlockReward(cfg, b, a, emitted)
		require.True(rw <= prev, "reward must not grow with emission: %d -> %d", prev, rw)
		prev = rw
	}
}

func TestCapNeverExceeded(t *testing.T) {
	require := require.New(t)

	// a degenerate config whose raw product overshoots the remaining
	// supply: one block is expected to emit everything at once
	cfg := blocknet.DefaultIssuanceRules()
	cfg.ExpectedTotalBlocks = 1
	b := BaselinesFromRules(cfg)

	a := baselineActivity(cfg)
	a.TxCount *= 100
	a.TxVolume *= 100
	a.UniqueMiners = 4 * cfg.BaselineMiners

	got := BlockReward(cfg, b, a, 0)
	require.Equal(blocknet.MaxSupply, got, "reward must clamp to the remaining supply")

	require.Zero(BlockReward(cfg, b, a, blocknet.MaxSupply))
}

func TestRewardReachesZeroNearCap(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)
	a := baselineActivity(cfg)

	// inside the last 1% the decay factor underflows the fixed-point
	// grid and half-up rounding lets the reward hit exact zero
	got := BlockReward(cfg, b, a, blocknet.MaxSupply-100)
	require.Zero(got)

	// far from the cap the reward never starves to zero
	got = BlockReward(cfg, b, a, blocknet.MaxSupply/2)
	require.True(got > 0)
}

func TestZeroParamsSafety(t *testing.T) {
	require := require.New(t)

	var cfg blocknet.IssuanceRules
	var b Baselines
	var a NetworkActivity

	require.Zero(BlockReward(cfg, b, a, 0))
	require.Zero(BlockReward(cfg, b, a, blocknet.MaxSupply))
}

func TestDeterministic(t *testing.T) {
	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)
	a := NetworkActivity{
		TxCount:        12345,
		TxVolume:       999_999_999_999,
		UniqueMiners:   37,
		UtilizationPpm: 123_456,
	}

	first := Compute(cfg, b, a, 1_234_567_890_123)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Compute(cfg, b, a, 1_234_567_890_123))
	}
}

func TestAdaptiveBaselines(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	// alpha 5%: one observation of 1100 moves the 100 baseline to 150
	obs := NetworkActivity{TxCount: 1100, TxVolume: b.TxVolume, UniqueMiners: b.Miners}
	next := b.Update(cfg, obs)
	require.Equal(uint64(150), next.TxCount)
	require.Equal(b.TxVolume, next.TxVolume)
	require.Equal(b.Miners, next.Miners)

	// decrease moves the same way down
	obs = NetworkActivity{TxCount: b.TxCount, TxVolume: 5_000_000_000, UniqueMiners: b.Miners}
	next = b.Update(cfg, obs)
	require.Equal(uint64(9_750_000_000), next.TxVolume)

	// drift is pinned to the configured bounds
	obs = NetworkActivity{TxCount: 1 << 40, TxVolume: b.TxVolume, UniqueMiners: b.Miners}
	pinned := b
	for i := 0; i < 200; i++ {
		pinned = pinned.Update(cfg, obs)
	}
	require.Equal(cfg.BaselineBounds.MaxTxCount, pinned.TxCount)

	obs = NetworkActivity{TxCount: 0, TxVolume: 0, UniqueMiners: 0}
	pinned = b
	for i := 0; i < 200; i++ {
		pinned = pinned.Update(cfg, obs)
	}
	require.Equal(cfg.BaselineBounds.MinTxCount, pinned.TxCount)
	require.Equal(cfg.BaselineBounds.MinTxVolume, pinned.TxVolume)
	require.Equal(cfg.BaselineBounds.MinMiners, pinned.Miners)
}

func TestBaselinesDoNotAffectNeutralObservation(t *testing.T) {
	require := require.New(t)

	cfg := blocknet.DefaultIssuanceRules()
	b := BaselinesFromRules(cfg)

	// observing exactly the baseline is a fixed point of the EMA
	next := b.Update(cfg, baselineActivity(cfg))
	require.Equal(b, next)
}
