// Package launcher wires configuration, logging and the chain store into
// a runnable node process.
package launcher

import (
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/blocknet/go-blocknet/blocknet/genesis"
	"github.com/blocknet/go-blocknet/flags"
	"github.com/blocknet/go-blocknet/integration"
)

var app = flags.NewApp()

func init() {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NetworkFlags()...)
	app.Flags = append(app.Flags, flags.TxPoolFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)
	app.Action = launch
}

// Launch parses args and runs the node.
func Launch(args []string) error {
	return app.Run(args)
}

func launch(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Node.Logging); err != nil {
		return err
	}

	rules := cfg.Rules()
	log := logrus.WithFields(logrus.Fields{
		"network": rules.Name,
		"id":      rules.NetworkID,
	})

	store, err := integration.MakeStore(rules)
	if err != nil {
		return err
	}
	// recompute the genesis from the rules and cross-check the booted
	// chain; a mismatch means the datadir belongs to another network
	if err := genesis.Check(rules, store.GenesisHash()); err != nil {
		return err
	}

	height, tip := store.Tip()
	log.WithFields(logrus.Fields{
		"genesis":  store.GenesisHash().String(),
		"height":   height,
		"tip":      tip.String(),
		"emission": store.TotalEmission(),
		"datadir":  cfg.Node.DataDir,
	}).Info("node started")
	return nil
}

// setupLogging configures logrus from the node config: level, format and
// the optional Sentry hook for error reporting.
func setupLogging(cfg LoggingConfig) error {
	levels := []logrus.Level{
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
		logrus.DebugLevel,
		logrus.TraceLevel,
	}
	verbosity := cfg.Verbosity
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(levels) {
		verbosity = len(levels) - 1
	}
	logrus.SetLevel(levels[verbosity])

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return err
		}
		hook.StacktraceConfiguration.Enable = true
		logrus.AddHook(hook)
	}
	return nil
}
