package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for the BlockNet node",
			Value: "~/.blocknet",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Runtime preset to start from (lite|full|archive|default)",
			Value: "default",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Enable colored log output",
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Sentry DSN for error reporting (disabled when empty)",
		},
		cli.BoolFlag{
			Name:  "http",
			Usage: "Enable HTTP JSON-RPC server",
		},
		cli.StringFlag{
			Name:  "http.addr",
			Usage: "HTTP-RPC server listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "http.port",
			Usage: "HTTP-RPC server listening port",
			Value: 18545,
		},
		cli.StringFlag{
			Name:  "http.api",
			Usage: "Comma-separated list of HTTP-RPC APIs to enable",
			Value: "chain,net",
		},
		cli.BoolFlag{
			Name:  "ws",
			Usage: "Enable WebSocket JSON-RPC server",
		},
		cli.StringFlag{
			Name:  "ws.addr",
			Usage: "WebSocket-RPC listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "ws.port",
			Usage: "WebSocket-RPC listening port",
			Value: 18546,
		},
		cli.StringFlag{
			Name:  "ws.api",
			Usage: "Comma-separated list of WebSocket APIs to enable",
			Value: "chain,net",
		},
		cli.BoolFlag{
			Name:  "ipc",
			Usage: "Enable IPC (Unix socket) JSON-RPC server",
		},
		cli.StringFlag{
			Name:  "ipc.path",
			Usage: "Filename for IPC socket/pipe",
			Value: "blocknet.ipc",
		},
		cli.DurationFlag{
			Name:  "rpc.timeout",
			Usage: "Global JSON-RPC request timeout",
			Value: 30 * time.Second,
		},
	}
}
