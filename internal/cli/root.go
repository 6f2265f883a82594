// Package cli wires the commands, configuration, and logging for scryd.
package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/config"
)

// CLI is the root command structure for scryd
type CLI struct {
	// Global flags
	LogPath   string `short:"p" help:"Path to the Arena Player.log (overrides config and saved state)"`
	Quiet     bool   `short:"q" help:"Only log warnings and errors"`
	Verbose   bool   `short:"v" help:"Show debug output"`
	FromStart bool   `help:"Process the whole log instead of tailing from the end"`

	// Commands
	Monitor MonitorCmd `cmd:"" default:"withargs" help:"Tail the Arena log and track matches"`
	Stats   StatsCmd   `cmd:"" help:"Show recorded match statistics"`
	Export  ExportCmd  `cmd:"" help:"Export match history to a JSON or CSV file"`
	Reset   ResetCmd   `cmd:"" help:"Wipe recorded match history"`
	Pick    PickCmd    `cmd:"" help:"Interactively pick which Player.log to monitor"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	LogPath   string
	Quiet     bool
	Verbose   bool
	FromStart bool
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *config.Config
	Logger    *zap.Logger
}

// NewGlobalsWithConfig creates a Globals with config fallbacks applied where
// the CLI flag was not set.
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config, logger *zap.Logger) *Globals {
	g := &Globals{
		LogPath:   cli.LogPath,
		Quiet:     cli.Quiet,
		Verbose:   cli.Verbose,
		FromStart: cli.FromStart,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Config:    cfg,
		Logger:    logger,
	}

	if cfg != nil {
		if g.LogPath == "" {
			g.LogPath = cfg.LogPath
		}
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = true
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = true
		}
		if !cli.FromStart && cfg.FromStart {
			g.FromStart = true
		}
	}

	if g.Logger == nil {
		g.Logger = zap.NewNop()
	}
	return g
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	_, err := io.WriteString(globals.Stdout, "scryd version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
