package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/blocknet/go-blocknet/blocknet"
	"github.com/blocknet/go-blocknet/integration"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node    NodeConfig
	Network NetworkConfig
	Miner   MinerConfig
	TxPool  TxPoolConfig
	Store   integration.PresetConfig
}

type NodeConfig struct {
	DataDir string
	Name    string
	P2P     P2PConfig
	RPC     RPCConfig
	Logging LoggingConfig
}

type P2PConfig struct {
	ListenAddr string
	ListenPort int
	MaxPeers   int
	Bootnodes  []string
}

type RPCConfig struct {
	HTTPEnabled bool
	HTTPAddr    string
	HTTPPort    int
	HTTPAPI     []string

	EnableWS bool
	WSAddr   string
	WSPort   int
	WSAPI    []string

	EnableIPC bool
	IPCPath   string
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

// NetworkConfig selects which BlockNet chain the node joins.
type NetworkConfig struct {
	Name    string
	ID      uint64
	FakeNet bool
}

// MinerConfig controls local block production.
type MinerConfig struct {
	Enabled bool
	Address string
}

type TxPoolConfig struct {
	Journal       string
	FeeLimit      uint64
	FeeBump       uint64
	AccountSlots  uint64
	GlobalSlots   uint64
	AccountQueue  uint64
	GlobalQueue   uint64
	TxLifetimeSec uint64
}

func defaultConfig() Config {
	home := GuessHomeDir()
	main := blocknet.MainNetRules()
	return Config{
		Node: NodeConfig{
			DataDir: filepath.Join(home, ".blocknet"),
			Name:    "blocknet",
			P2P: P2PConfig{
				ListenAddr: "0.0.0.0",
				ListenPort: 5050,
				MaxPeers:   50,
			},
			RPC: RPCConfig{
				HTTPEnabled: true,
				HTTPAddr:    "127.0.0.1",
				HTTPPort:    18545,
				HTTPAPI:     []string{"chain", "net"},
				EnableWS:    false,
				WSAddr:      "127.0.0.1",
				WSPort:      18546,
				WSAPI:       []string{"chain", "net"},
				EnableIPC:   true,
				IPCPath:     "blocknet.ipc",
			},
			Logging: LoggingConfig{
				Verbosity: 3,
				Format:    "text",
				Color:     true,
			},
		},
		Network: NetworkConfig{
			Name: main.Name,
			ID:   main.NetworkID,
		},
		TxPool: TxPoolConfig{
			Journal:       "transactions.cser",
			FeeLimit:      100,
			FeeBump:       10,
			AccountSlots:  16,
			GlobalSlots:   4096,
			AccountQueue:  64,
			GlobalQueue:   1024,
			TxLifetimeSec: 10800,
		},
		Store: integration.DefaultPreset(),
	}
}

// MakeAllConfigs merges defaults, the selected preset, then CLI flag
// overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if name := ctx.String("preset"); name != "" {
		preset, err := integration.GetPresetByName(name)
		if err != nil {
			return cfg, err
		}
		integration.ApplyPreset(&cfg.Store, preset)
	}

	applyCLIOverrides(ctx, &cfg)

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Rules maps the network selection to its consensus rules.
func (cfg Config) Rules() blocknet.Rules {
	switch {
	case cfg.Network.FakeNet:
		return blocknet.FakeNetRules()
	case cfg.Network.ID == blocknet.TestNetworkID:
		return blocknet.TestNetRules()
	default:
		return blocknet.MainNetRules()
	}
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}
	if ctx.IsSet("identity") {
		cfg.Node.Name = ctx.String("identity")
	}

	if ctx.IsSet("port") {
		cfg.Node.P2P.ListenPort = ctx.Int("port")
	}
	if ctx.IsSet("maxpeers") {
		cfg.Node.P2P.MaxPeers = ctx.Int("maxpeers")
	}
	if ctx.IsSet("bootnodes") {
		cfg.Node.P2P.Bootnodes = splitCSV(ctx.String("bootnodes"))
	}

	if ctx.Bool("http") {
		cfg.Node.RPC.HTTPEnabled = true
	}
	if ctx.IsSet("http.addr") {
		cfg.Node.RPC.HTTPAddr = ctx.String("http.addr")
	}
	if ctx.IsSet("http.port") {
		cfg.Node.RPC.HTTPPort = ctx.Int("http.port")
	}
	if ctx.IsSet("http.api") {
		cfg.Node.RPC.HTTPAPI = splitCSV(ctx.String("http.api"))
	}
	if ctx.Bool("ws") {
		cfg.Node.RPC.EnableWS = true
	}
	if ctx.IsSet("ws.addr") {
		cfg.Node.RPC.WSAddr = ctx.String("ws.addr")
	}
	if ctx.IsSet("ws.port") {
		cfg.Node.RPC.WSPort = ctx.Int("ws.port")
	}
	if ctx.IsSet("ws.api") {
		cfg.Node.RPC.WSAPI = splitCSV(ctx.String("ws.api"))
	}
	if ctx.IsSet("ipc") {
		cfg.Node.RPC.EnableIPC = ctx.Bool("ipc")
	}
	if ctx.IsSet("ipc.path") {
		cfg.Node.RPC.IPCPath = ctx.String("ipc.path")
	}

	if ctx.IsSet("log.format") {
		cfg.Node.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Node.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Node.Logging.SentryDSN = ctx.String("sentry.dsn")
	}

	if ctx.IsSet("txpool.journal") {
		cfg.TxPool.Journal = ctx.String("txpool.journal")
	}
	if ctx.IsSet("txpool.feelimit") {
		cfg.TxPool.FeeLimit = ctx.Uint64("txpool.feelimit")
	}
	if ctx.IsSet("txpool.feebump") {
		cfg.TxPool.FeeBump = ctx.Uint64("txpool.feebump")
	}
	if ctx.IsSet("txpool.localslots") {
		cfg.TxPool.AccountSlots = uint64(ctx.Int("txpool.localslots"))
	}
	if ctx.IsSet("txpool.globalslots") {
		cfg.TxPool.GlobalSlots = uint64(ctx.Int("txpool.globalslots"))
	}
	if ctx.IsSet("txpool.localqueue") {
		cfg.TxPool.AccountQueue = uint64(ctx.Int("txpool.localqueue"))
	}
	if ctx.IsSet("txpool.globalqueue") {
		cfg.TxPool.GlobalQueue = uint64(ctx.Int("txpool.globalqueue"))
	}
	if ctx.IsSet("txpool.lifetime") {
		cfg.TxPool.TxLifetimeSec = ctx.Uint64("txpool.lifetime")
	}

	if ctx.Bool("testnet") {
		cfg.Network.Name = "test"
		cfg.Network.ID = blocknet.TestNetworkID
	}
	if ctx.Bool("fakenet") {
		cfg.Network.FakeNet = true
		cfg.Network.Name = "fake"
		cfg.Network.ID = blocknet.FakeNetworkID
	}
	if ctx.Bool("miner") {
		cfg.Miner.Enabled = true
	}
	if ctx.IsSet("miner.address") {
		cfg.Miner.Address = ctx.String("miner.address")
	}
	if ctx.IsSet("cache") {
		cfg.Store.CacheMB = ctx.Int("cache")
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
