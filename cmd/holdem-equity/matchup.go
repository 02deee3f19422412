package main

import (
	"context"
	"fmt"

	"github.com/coder/quartz"

	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/store"
	"github.com/lox/holdem-equity/poker"
)

// MatchupCmd computes a heads-up preflop matchup through the memo table.
type MatchupCmd struct {
	A       string `arg:"" name:"hand" help:"First hand, e.g. 'AsAh'"`
	B       string `arg:"" name:"opponent" help:"Second hand, e.g. '7c7d'"`
	Driver  string `help:"Matchup database driver (sqlite or postgres); defaults to config"`
	DB      string `help:"Matchup database DSN; defaults to config"`
	Workers int    `short:"w" help:"Parallel workers (0 = config, then one per CPU)"`
}

func (cmd *MatchupCmd) Run(g *Globals) error {
	e, err := g.env()
	if err != nil {
		return err
	}
	defer e.stop()

	a, err := poker.ParseHole(cmd.A)
	if err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	b, err := poker.ParseHole(cmd.B)
	if err != nil {
		return fmt.Errorf("opponent: %w", err)
	}
	if err := poker.Validate([]poker.Hole{a, b}, poker.Board{}); err != nil {
		return err
	}

	driver, dsn := e.cfg.Store.Driver, e.cfg.Store.DSN
	if cmd.Driver != "" {
		driver = cmd.Driver
	}
	if cmd.DB != "" {
		dsn = cmd.DB
	}
	db, err := store.Open(e.ctx, driver, dsn, e.logger, quartz.NewReal())
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := e.engine(cmd.Workers)
	if err != nil {
		return err
	}
	m, cached, err := db.Matchup(e.ctx, a, b, func(ctx context.Context, high, low poker.Hole) (equity.Matchup, error) {
		return engine.Matchup(ctx, high, low)
	})
	if err != nil {
		return err
	}
	displayMatchup(e.out, a, b, m, cached)
	return nil
}
