package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Balthazzahr/scry-daemon/internal/cli"
	"github.com/Balthazzahr/scry-daemon/internal/config"
)

const quickStart = `scryd - MTG Arena match tracker for the Player.log

START HERE (this is the command you want):
  scryd monitor

It finds your Player.log, follows it, and records every match you play.
Make sure "Detailed Logs (Plugin Support)" is enabled in Arena's
Account settings, or the log carries no match data.

Other useful commands:
  scryd stats                 Show your record, per-deck and recent
  scryd export matches.csv    Export history to CSV or JSON
  scryd pick                  Choose which Player.log to monitor
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("scryd"),
		kong.Description("scry-daemon: track MTG Arena matches from the Player.log\n\nSTART HERE: scryd monitor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)

	logger, err := buildLogger(&c, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	globals := cli.NewGlobalsWithConfig(&c, cfg, logger)
	if err := ctx.Run(globals); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func buildLogger(c *cli.CLI, cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch {
	case c.Verbose || cfg.Verbose:
		level = zapcore.DebugLevel
	case c.Quiet || cfg.Quiet:
		level = zapcore.WarnLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	return zc.Build()
}
