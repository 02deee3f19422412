package equity

import (
	"context"
	"time"

	"github.com/lox/holdem-equity/poker"
	"golang.org/x/sync/errgroup"
)

// Enumeration is the result of visiting every completion of a board.
type Enumeration struct {
	Players []poker.Hole
	Board   poker.Board
	Wins    Wins
	// Expected is the number of completions the board has.
	Expected uint64
	// Cases is the number of completions visited, including skipped ones.
	Cases uint64
	// Skipped counts cases whose ranking failed. They count for nobody.
	Skipped uint64
	Elapsed time.Duration
}

// Complete reports whether every case was visited and ranked.
func (e Enumeration) Complete() bool {
	return e.Skipped == 0 && e.Cases == e.Expected
}

// Results derives per-player counters from the wins.
func (e Enumeration) Results() Results {
	return NewResults(e.Wins, len(e.Players))
}

// Enumerate visits every completion of board, sequentially for small
// enumerations and with the worker pool from ParallelThreshold cases up.
// Invalid input is rejected before any case is visited.
func (e *Engine) Enumerate(ctx context.Context, players []poker.Hole, board poker.Board) (Enumeration, error) {
	d, err := newDeal(players, board)
	if err != nil {
		return Enumeration{}, err
	}
	if d.cases >= e.cfg.ParallelThreshold {
		return e.parallel(ctx, d, players, board)
	}
	return e.sequential(ctx, d, players, board)
}

// EnumerateSequential visits every completion on the calling goroutine.
func (e *Engine) EnumerateSequential(ctx context.Context, players []poker.Hole, board poker.Board) (Enumeration, error) {
	d, err := newDeal(players, board)
	if err != nil {
		return Enumeration{}, err
	}
	return e.sequential(ctx, d, players, board)
}

// EnumerateParallel visits every completion with a pool of workers. The
// wins are identical to EnumerateSequential.
func (e *Engine) EnumerateParallel(ctx context.Context, players []poker.Hole, board poker.Board) (Enumeration, error) {
	d, err := newDeal(players, board)
	if err != nil {
		return Enumeration{}, err
	}
	return e.parallel(ctx, d, players, board)
}

func (e *Engine) start(d deal, players []poker.Hole, board poker.Board) Enumeration {
	return Enumeration{
		Players:  append([]poker.Hole(nil), players...),
		Board:    board,
		Expected: d.cases,
	}
}

func (e *Engine) sequential(ctx context.Context, d deal, players []poker.Hole, board poker.Board) (Enumeration, error) {
	start := e.clock.Now()
	res := e.start(d, players, board)

	var p partial
	for completion := range poker.Combinations(d.remaining, d.missing) {
		if p.cases%uint64(e.cfg.ChunkSize) == 0 {
			if err := ctx.Err(); err != nil {
				res.absorb(p)
				res.Elapsed = e.clock.Since(start)
				return res, err
			}
		}
		p.visit(e, d, completion)
	}
	res.absorb(p)
	res.Elapsed = e.clock.Since(start)
	e.logSummary(res, "sequential")
	return res, nil
}

func (e *Engine) parallel(ctx context.Context, d deal, players []poker.Hole, board poker.Board) (Enumeration, error) {
	start := e.clock.Now()
	res := e.start(d, players, board)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan []poker.CardSet, e.cfg.Workers)
	partials := make(chan partial, e.cfg.Workers)

	g.Go(func() error {
		defer close(chunks)
		chunk := make([]poker.CardSet, 0, e.cfg.ChunkSize)
		for completion := range poker.Combinations(d.remaining, d.missing) {
			chunk = append(chunk, completion)
			if len(chunk) < e.cfg.ChunkSize {
				continue
			}
			select {
			case chunks <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
			chunk = make([]poker.CardSet, 0, e.cfg.ChunkSize)
		}
		if len(chunk) > 0 {
			select {
			case chunks <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < e.cfg.Workers; w++ {
		g.Go(func() error {
			for chunk := range chunks {
				var p partial
				for _, completion := range chunk {
					p.visit(e, d, completion)
				}
				select {
				case partials <- p:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		defer close(partials)
		g.Wait()
	}()

	// The collector is the only owner of the aggregate.
	for p := range partials {
		res.absorb(p)
	}

	err := g.Wait()
	res.Elapsed = e.clock.Since(start)
	if err != nil {
		return res, err
	}
	e.logSummary(res, "parallel")
	return res, nil
}

// partial is a worker-local fold of some cases.
type partial struct {
	wins    Wins
	cases   uint64
	skipped uint64
}

func (p *partial) visit(e *Engine, d deal, completion poker.CardSet) {
	p.cases++
	flag, err := d.outcome(e.rank, completion)
	if err != nil {
		p.skipped++
		e.logger.Warn("Skipping case", "completion", completion.String(), "err", err)
		return
	}
	p.wins.Add(flag)
}

func (res *Enumeration) absorb(p partial) {
	res.Wins.Merge(p.wins)
	res.Cases += p.cases
	res.Skipped += p.skipped
}

func (e *Engine) logSummary(res Enumeration, mode string) {
	if res.Skipped > 0 {
		e.logger.Warn("Enumeration incomplete",
			"mode", mode,
			"cases", res.Cases,
			"skipped", res.Skipped)
		return
	}
	e.logger.Debug("Enumeration complete",
		"mode", mode,
		"cases", res.Cases,
		"elapsed", res.Elapsed)
}
