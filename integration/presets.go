// Package integration provides configuration presets and assembly
// helpers for building the BlockNet node runtime. Presets bundle common
// settings (cache sizes, pruning modes, DB layouts) into named profiles
// (Lite, Full, Archive) so operators can spin up nodes optimized for
// different workloads without tweaking dozens of flags.
//
// Usage:
//
//	cfg := integration.LitePreset()    // for development
//	cfg := integration.FullPreset()    // for production nodes
//	cfg := integration.ArchivePreset() // for chain explorers
//
// Each preset returns a PresetConfig struct that the launcher merges
// into its main config during node initialization.
package integration

import (
	"fmt"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/chainstore"
	"github.com/blocknet/go-blocknet/txsigner"
)

// MakeStore assembles the canonical chain store for the given network
// rules, wired to the production Ed25519 signature checker.
func MakeStore(rules blocknet.Rules) (*chainstore.Store, error) {
	return chainstore.New(rules, txsigner.Checker{})
}

// PresetConfig captures the tunable parameters that vary across preset
// profiles. It intentionally excludes fields that are always the same
// (like network IDs or RPC ports) so presets focus on performance and
// resource trade-offs.
type PresetConfig struct {
	Name           string // human-readable identifier (e.g., "lite", "full")
	CacheMB        int    // total memory allocated to internal caches
	GCMode         string // history pruning strategy: "light", "full", "archive"
	DBPreset       string // database layout identifier (e.g., "ldb-1", "pbl-1")
	EnableMetrics  bool   // whether to expose metrics endpoints
	EnableTracing  bool   // whether to enable distributed tracing
	EnableLightKDF bool   // faster (weaker) key derivation for keystore passwords
}

func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:           "default",
		CacheMB:        1024,    // enough for moderate workloads
		GCMode:         "full",  // prune undo journals beyond the reorg horizon
		DBPreset:       "ldb-1", // LevelDB layout for write-heavy workloads
		EnableMetrics:  false,
		EnableTracing:  false,
		EnableLightKDF: false, // strong key derivation for production
	}
}

// LitePreset returns a lightweight configuration for development,
// testing, and low-resource environments. It trades durability and
// security for faster startup and a smaller memory footprint.
//
// Use cases:
//   - Local fakenet development
//   - CI pipelines with limited resources
//   - Quick network testing with disposable nodes
func LitePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "lite"
	cfg.CacheMB = 256
	cfg.GCMode = "archive" // keep all undo history for debugging reorgs
	cfg.DBPreset = "lite"
	cfg.EnableMetrics = true
	cfg.EnableLightKDF = true // faster account unlock during testing
	return cfg
}

// FullPreset returns a production configuration for mining nodes and
// public endpoints: large caches, monitoring enabled, strong security
// defaults.
func FullPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "full"
	cfg.CacheMB = 4096
	cfg.GCMode = "full"
	cfg.DBPreset = "ldb-1"
	cfg.EnableMetrics = true
	cfg.EnableTracing = true
	cfg.EnableLightKDF = false
	return cfg
}

// ArchivePreset returns a configuration for chain explorers and
// analytics platforms that query historical state: pruning disabled,
// caching maximized.
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.CacheMB = 8192
	cfg.GCMode = "archive" // never prune: retain complete history
	cfg.DBPreset = "pbl-1" // PebbleDB layout for read-heavy workloads
	cfg.EnableMetrics = true
	cfg.EnableTracing = true
	cfg.EnableLightKDF = false
	return cfg
}

// GetPresetByName looks up a preset by its string identifier. This
// helper backs the --preset CLI flag.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "lite":
		return LitePreset(), nil
	case "full":
		return FullPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: lite, full, archive, default)", name)
	}
}

// ApplyPreset merges a preset configuration into an existing config.
// Non-zero fields in the preset override the corresponding values in the
// target, so presets can be applied on top of CLI/config-file overrides
// without clobbering unrelated settings.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.CacheMB > 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.GCMode != "" {
		target.GCMode = preset.GCMode
	}
	if preset.DBPreset != "" {
		target.DBPreset = preset.DBPreset
	}
	// boolean flags are always applied
	target.EnableMetrics = preset.EnableMetrics
	target.EnableTracing = preset.EnableTracing
	target.EnableLightKDF = preset.EnableLightKDF
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
