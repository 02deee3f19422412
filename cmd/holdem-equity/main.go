package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/lox/holdem-equity/cmd/holdem-equity/shared"
	"github.com/lox/holdem-equity/internal/bcm"
	"github.com/lox/holdem-equity/internal/config"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/poker"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config  string           `short:"c" help:"HCL config file" default:"holdem-equity.hcl" type:"path"`
	Debug   bool             `help:"Enable debug logging"`
	NoColor bool             `help:"Disable colored output"`
	Version kong.VersionFlag `short:"v" help:"Show version"`
}

type CLI struct {
	Globals

	Odds    OddsCmd    `cmd:"" help:"Exact win, tie and equity percentages for hole cards on a board"`
	Matchup MatchupCmd `cmd:"" help:"Heads-up preflop matchup, memoized in the matchup database"`
	BCM     BCMCmd     `cmd:"bcm" help:"Build and verify the seven-card cache"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-equity"),
		kong.Description("Exact Texas Hold'em equity by full enumeration"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// env is what a command needs once globals and config are resolved.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	debug  bool
	out    io.Writer
	ctx    context.Context
	stop   context.CancelFunc
}

func (g *Globals) env() (*env, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", g.Config, err)
	}

	logger := shared.SetupLogger(os.Stderr, cfg.Log.Level, g.Debug, g.NoColor)
	ctx, stop := shared.SetupSignalHandler(logger)
	return &env{
		cfg:    cfg,
		logger: logger,
		debug:  g.Debug,
		out:    os.Stdout,
		ctx:    ctx,
		stop:   stop,
	}, nil
}

// cache returns the shared seven-card cache when the config enables it, and
// nil otherwise.
func (e *env) cache() (*bcm.Cache, error) {
	if !e.cfg.Cache.Enabled {
		return nil, nil
	}
	c, err := bcm.Shared(e.cfg.Cache.Path, e.logger)
	if err != nil {
		return nil, fmt.Errorf("loading seven-card cache: %w", err)
	}
	if err := requireFullDeck(c); err != nil {
		return nil, fmt.Errorf("%s: %w", e.cfg.Cache.Path, err)
	}
	return c, nil
}

// requireFullDeck rejects a cache built over a partial deck; the engine
// looks up boards drawn from all 52 cards.
func requireFullDeck(c *bcm.Cache) error {
	if c.Deck() != poker.FullDeck {
		return fmt.Errorf("%w: cache covers %d of 52 cards", bcm.ErrNotReady, c.Deck().Count())
	}
	return nil
}

// engine builds an equity engine from the config. workers overrides the
// configured worker count when positive.
func (e *env) engine(workers int) (*equity.Engine, error) {
	cfg := engineConfig(e.cfg, workers)
	cfg.Logger = shared.SetupEngineLogger(os.Stderr, e.debug)

	c, err := e.cache()
	if err != nil {
		return nil, err
	}
	if c != nil {
		cfg.Cache = c
	}
	return equity.New(cfg), nil
}

func engineConfig(cfg *config.Config, workers int) equity.Config {
	out := equity.Config{
		Workers:           cfg.Engine.Workers,
		ChunkSize:         cfg.Engine.ChunkSize,
		ParallelThreshold: uint64(cfg.Engine.ParallelThreshold),
	}
	if workers > 0 {
		out.Workers = workers
	}
	return out
}
