package main

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/randutil"
	"github.com/lox/holdem-equity/poker"
)

// OddsCmd enumerates every completion of the board for the given players.
type OddsCmd struct {
	Holes   []string `arg:"" optional:"" help:"Hole cards per player, e.g. 'AsKd' '7c 7h'"`
	Board   string   `short:"b" help:"Community cards: none, flop, turn or river (e.g. '9c6d5h')"`
	Outs    bool     `help:"List the next cards that give each player a best hand (flop or turn only)"`
	Mode    string   `short:"m" help:"Enumeration mode" enum:"auto,sequential,parallel" default:"auto"`
	Random  int      `short:"r" help:"Add N players with random hole cards"`
	Seed    int64    `help:"Random seed for --random (0 = time based)"`
	Workers int      `short:"w" help:"Parallel workers (0 = config, then one per CPU)"`
}

func (cmd *OddsCmd) Run(g *Globals) error {
	e, err := g.env()
	if err != nil {
		return err
	}
	defer e.stop()

	holes, err := parseHoles(cmd.Holes)
	if err != nil {
		return err
	}
	board, err := poker.ParseBoard(cmd.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if cmd.Random > 0 {
		seed := randutil.Seed(cmd.Seed)
		holes, err = dealRandom(holes, board, cmd.Random, randutil.New(seed))
		if err != nil {
			return err
		}
		e.logger.Info().Int64("seed", seed).Int("players", cmd.Random).Msg("Dealt random hole cards")
	}
	if len(holes) < 2 {
		return fmt.Errorf("%w: need at least two players, got %d (use --random to fill)", poker.ErrPlayerCount, len(holes))
	}

	engine, err := e.engine(cmd.Workers)
	if err != nil {
		return err
	}
	res, err := enumerate(e.ctx, engine, cmd.Mode, holes, board)
	if err != nil {
		return err
	}
	displayResults(e.out, res, cmd.Mode)

	if cmd.Outs {
		outs, err := engine.Outs(e.ctx, holes, board)
		if errors.Is(err, equity.ErrNotOneCardAway) {
			return fmt.Errorf("--outs needs a flop or turn board: %w", err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out)
		displayOuts(e.out, outs)
	}
	return nil
}

func enumerate(ctx context.Context, engine *equity.Engine, mode string, holes []poker.Hole, board poker.Board) (equity.Enumeration, error) {
	switch mode {
	case "sequential":
		return engine.EnumerateSequential(ctx, holes, board)
	case "parallel":
		return engine.EnumerateParallel(ctx, holes, board)
	default:
		return engine.Enumerate(ctx, holes, board)
	}
}

func parseHoles(holeStrings []string) ([]poker.Hole, error) {
	var holes []poker.Hole

	for i, s := range holeStrings {
		hole, err := poker.ParseHole(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		holes = append(holes, hole)
	}

	return holes, nil
}

// dealRandom appends n players dealt from the cards nobody holds.
func dealRandom(holes []poker.Hole, board poker.Board, n int, rng *rand.Rand) ([]poker.Hole, error) {
	used := board.Set()
	for _, h := range holes {
		used |= h.Set()
	}

	deck := poker.NewDeckWithout(rng, used)
	out := append([]poker.Hole(nil), holes...)
	for i := 0; i < n; i++ {
		hole, ok := deck.DealHole()
		if !ok {
			return nil, fmt.Errorf("%w: no cards left for random player %d", poker.ErrPlayerCount, i+1)
		}
		out = append(out, hole)
	}
	return out, nil
}
