package test

import (
	"testing"

	"gopkg.in/urfave/cli.v1"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/cmd/blocknet/launcher"
	"github.com/blocknet/go-blocknet/flags"
)

// runConfigFromArgs builds a launcher config from a synthetic CLI
// invocation, the same way the real binary does.
func runConfigFromArgs(t *testing.T, args []string) launcher.Config {
	t.Helper()

	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NetworkFlags()...)
	app.Flags = append(app.Flags, flags.TxPoolFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)

	var got launcher.Config
	app.Action = func(c *cli.Context) error {
		cfg, err := launcher.MakeAllConfigs(c)
		if err != nil {
			return err
		}
		got = cfg
		return nil
	}

	if err := app.Run(append([]string{"blocknet"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got
}

// TestMakeAllConfigs_flagOverrides verifies that command-line flags
// override the corresponding fields in the aggregated Config struct.
func TestMakeAllConfigs_flagOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(t *testing.T, cfg launcher.Config)
	}{
		{
			name: "datadir and identity",
			args: []string{"--datadir", t.TempDir(), "--identity", "node-7"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Node.Name != "node-7" {
					t.Fatalf("Identity = %q, want node-7", cfg.Node.Name)
				}
			},
		},
		{
			name: "P2P and bootnodes",
			args: []string{
				"--datadir", t.TempDir(),
				"--port", "5151", "--maxpeers", "99",
				"--bootnodes", "enode://abc@1.2.3.4:5050, enode://def@5.6.7.8:5050",
			},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Node.P2P.ListenPort != 5151 {
					t.Fatalf("ListenPort = %d, want 5151", cfg.Node.P2P.ListenPort)
				}
				if cfg.Node.P2P.MaxPeers != 99 {
					t.Fatalf("MaxPeers = %d, want 99", cfg.Node.P2P.MaxPeers)
				}
				// bootnodes split on comma and trim whitespace
				if len(cfg.Node.P2P.Bootnodes) != 2 || cfg.Node.P2P.Bootnodes[1] != "enode://def@5.6.7.8:5050" {
					t.Fatalf("Bootnodes = %#v, want two trimmed entries", cfg.Node.P2P.Bootnodes)
				}
			},
		},
		{
			name: "network selection",
			args: []string{"--datadir", t.TempDir(), "--fakenet"},
			want: func(t *testing.T, cfg launcher.Config) {
				if !cfg.Network.FakeNet {
					t.Fatal("FakeNet should be enabled")
				}
				if cfg.Rules().NetworkID != blocknet.FakeNetworkID {
					t.Fatalf("NetworkID = %#x, want fakenet", cfg.Rules().NetworkID)
				}
			},
		},
		{
			name: "preset and cache override",
			args: []string{"--datadir", t.TempDir(), "--preset", "lite", "--cache", "2048"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Store.Name != "lite" {
					t.Fatalf("Store preset = %q, want lite", cfg.Store.Name)
				}
				// explicit --cache beats the preset's value
				if cfg.Store.CacheMB != 2048 {
					t.Fatalf("CacheMB = %d, want 2048", cfg.Store.CacheMB)
				}
			},
		},
		{
			name: "txpool fee floor",
			args: []string{"--datadir", t.TempDir(), "--txpool.feelimit", "250"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.TxPool.FeeLimit != 250 {
					t.Fatalf("FeeLimit = %d, want 250", cfg.TxPool.FeeLimit)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := runConfigFromArgs(t, test.args)
			test.want(t, cfg)
		})
	}
}

// TestMakeAllConfigs_defaultNetwork checks that without selection flags
// the node targets mainnet.
func TestMakeAllConfigs_defaultNetwork(t *testing.T) {
	cfg := runConfigFromArgs(t, []string{"--datadir", t.TempDir()})
	if cfg.Rules().NetworkID != blocknet.MainNetworkID {
		t.Fatalf("NetworkID = %#x, want mainnet", cfg.Rules().NetworkID)
	}
	if cfg.Store.Name != "default" {
		t.Fatalf("Store preset = %q, want default", cfg.Store.Name)
	}
}
