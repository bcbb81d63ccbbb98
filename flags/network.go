package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NetworkFlags covers network selection and P2P configuration.
func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "testnet",
			Usage: "Connect to the public testnet instead of mainnet",
		},
		cli.BoolFlag{
			Name:  "fakenet",
			Usage: "Run a local single-node fake network with funded dev accounts",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "P2P networking port",
			Value: 5050,
		},
		cli.IntFlag{
			Name:  "maxpeers",
			Usage: "Maximum number of peer connections",
			Value: 50,
		},
		cli.StringFlag{
			Name:  "bootnodes",
			Usage: "Comma-separated enode URLs for bootstrap peers",
		},
		cli.StringSliceFlag{
			Name:  "staticnodes",
			Usage: "List of enode URLs to maintain persistent connections with",
		},
		cli.StringSliceFlag{
			Name:  "trustednodes",
			Usage: "Whitelist of peers that bypass slot limits",
		},
		cli.BoolFlag{
			Name:  "nodiscover",
			Usage: "Disable the peer discovery mechanism (manual peers only)",
		},
		cli.StringFlag{
			Name:  "netrestrict",
			Usage: "Comma-separated CIDR block list to restrict communication to",
		},
	}
}

// TxPoolFlags isolates transaction-pool tuning knobs.
func TxPoolFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "txpool.journal",
			Usage: "Location of the transaction journal file",
			Value: "transactions.cser",
		},
		cli.IntFlag{
			Name:  "txpool.localslots",
			Usage: "Number of executable transaction slots per account",
			Value: 16,
		},
		cli.IntFlag{
			Name:  "txpool.globalslots",
			Usage: "Maximum number of executable transactions total",
			Value: 4096,
		},
		cli.IntFlag{
			Name:  "txpool.localqueue",
			Usage: "Number of non-executable transaction slots per account",
			Value: 64,
		},
		cli.IntFlag{
			Name:  "txpool.globalqueue",
			Usage: "Maximum number of non-executable transactions total",
			Value: 1024,
		},
		cli.Uint64Flag{
			Name:  "txpool.feelimit",
			Usage: "Minimum fee (in sub-units) to accept a transaction",
			Value: 100,
		},
		cli.Uint64Flag{
			Name:  "txpool.feebump",
			Usage: "Fee bump percentage to replace an existing transaction",
			Value: 10,
		},
		cli.Uint64Flag{
			Name:  "txpool.lifetime",
			Usage: "Maximum transaction lifetime in the pool (seconds)",
			Value: 10800,
		},
	}
}
