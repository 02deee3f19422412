package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/holdem-equity/internal/bcm"
	"github.com/lox/holdem-equity/internal/crosscheck"
	"github.com/lox/holdem-equity/internal/randutil"
	"github.com/lox/holdem-equity/poker"
)

// BCMCmd groups the seven-card cache commands.
type BCMCmd struct {
	Build  BCMBuildCmd  `cmd:"" help:"Evaluate every seven-card hand and write the cache file"`
	Verify BCMVerifyCmd `cmd:"" help:"Check sampled cache entries against direct evaluation"`
}

// BCMBuildCmd writes the cache file.
type BCMBuildCmd struct {
	Out       string        `short:"o" help:"Output file; defaults to the configured cache path" type:"path"`
	Workers   int           `short:"w" help:"Build workers (0 = config, then one per CPU)"`
	ChunkSize int           `help:"Hands per work item" default:"4096"`
	Progress  time.Duration `help:"Progress log interval" default:"10s"`
}

func (cmd *BCMBuildCmd) Run(g *Globals) error {
	e, err := g.env()
	if err != nil {
		return err
	}
	defer e.stop()

	out := cmd.Out
	if out == "" {
		out = e.cfg.Cache.Path
	}
	workers := cmd.Workers
	if workers <= 0 {
		workers = e.cfg.Engine.Workers
	}

	start := time.Now()
	err = bcm.WriteFile(e.ctx, bcm.BuildConfig{
		Deck:             poker.FullDeck,
		Workers:          workers,
		ChunkSize:        cmd.ChunkSize,
		ProgressInterval: cmd.Progress,
	}, out, e.logger)
	if err != nil {
		return fmt.Errorf("building %s: %w", out, err)
	}
	e.logger.Info().Str("path", out).Dur("elapsed", time.Since(start)).Msg("Seven-card cache written")
	return nil
}

// BCMVerifyCmd loads a cache file and samples it.
type BCMVerifyCmd struct {
	Path       string `short:"p" help:"Cache file; defaults to the configured cache path" type:"path"`
	Samples    int    `short:"n" help:"Number of random hands to check" default:"100000"`
	Seed       int64  `help:"Random seed (0 = time based)"`
	Crosscheck bool   `help:"Also compare the cache ordering with an independent evaluator"`
}

func (cmd *BCMVerifyCmd) Run(g *Globals) error {
	e, err := g.env()
	if err != nil {
		return err
	}
	defer e.stop()

	path := cmd.Path
	if path == "" {
		path = e.cfg.Cache.Path
	}
	cache, err := bcm.Load(path, e.logger, quartz.NewReal())
	if err != nil {
		return err
	}

	seed := randutil.Seed(cmd.Seed)
	e.logger.Debug().Int64("seed", seed).Int("samples", cmd.Samples).Msg("Verifying cache")
	report, err := bcm.Verify(e.ctx, cache, cmd.Samples, randutil.New(seed))
	if err != nil {
		return err
	}
	displayVerify(e.out, report)

	ok := report.OK()
	if cmd.Crosscheck {
		if cache.Deck() != poker.FullDeck {
			return fmt.Errorf("%w: crosscheck needs a full-deck cache", bcm.ErrNotReady)
		}
		cc, err := crosscheck.Run(e.ctx, cacheEvaluator(cache), cmd.Samples, randutil.New(seed+1))
		if err != nil {
			return err
		}
		displayCrosscheck(e.out, cc)
		ok = ok && cc.OK()
	}

	if !ok {
		return errors.New("seven-card cache failed verification")
	}
	return nil
}

func cacheEvaluator(c *bcm.Cache) crosscheck.Evaluator {
	return func(set poker.CardSet) (poker.Strength, error) {
		entry, err := c.Lookup(set)
		if err != nil {
			return 0, err
		}
		return entry.Strength, nil
	}
}
