package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NodeFlags holds knobs specific to the local node instance (datadir
// layout, identity, caching).
func NodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "identity",
			Usage: "Custom node name to advertise over the network",
		},
		cli.IntFlag{
			Name:  "cache",
			Usage: "Megabytes of memory allocated to internal caching",
			Value: 1024,
		},
		cli.StringFlag{
			Name:  "keystore",
			Usage: "Directory for storing encrypted account keys",
		},
		cli.StringFlag{
			Name:  "miner.address",
			Usage: "Address credited with block rewards when mining",
		},
		cli.BoolFlag{
			Name:  "miner",
			Usage: "Enable local block production",
		},
		cli.StringFlag{
			Name:  "datadir.chaindata",
			Usage: "Override path to the chaindata DB (defaults to <datadir>/chaindata)",
		},
	}
}
