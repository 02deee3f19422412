package bcm

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/holdem-equity/poker"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultChunkSize        = 4096
	defaultProgressInterval = 10 * time.Second
)

// BuildConfig controls cache generation. Zero values pick defaults.
type BuildConfig struct {
	// Deck is the set of cards to enumerate; zero means the full deck.
	Deck poker.CardSet
	// Workers evaluating chunks; zero means one per CPU.
	Workers int
	// ChunkSize is the number of combinations handed to a worker at once.
	ChunkSize int
	// Clock drives progress reporting.
	Clock quartz.Clock
	// ProgressInterval between progress log lines.
	ProgressInterval time.Duration
}

func (cfg BuildConfig) withDefaults() BuildConfig {
	if cfg.Deck == 0 {
		cfg.Deck = poker.FullDeck
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}
	return cfg
}

// Row is one generated cache entry.
type Row struct {
	Key      poker.CardSet
	Best     poker.CardSet
	Strength poker.Strength
}

// Generate enumerates every seven-card combination of cfg.Deck exactly once
// and passes the evaluated rows to sink. Combinations are produced in chunks,
// evaluated by a worker pool, and handed to sink from the calling goroutine
// only, so sink needs no locking. Rows arrive in no particular order.
func Generate(ctx context.Context, cfg BuildConfig, logger zerolog.Logger, sink func([]Row) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	if n := cfg.Deck.Count(); n < 7 {
		return fmt.Errorf("bcm: deck has %d cards, need at least 7", n)
	}
	total := poker.Binomial(cfg.Deck.Count(), 7)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan []poker.CardSet, cfg.Workers)
	results := make(chan []Row, cfg.Workers)

	g.Go(func() error {
		defer close(jobs)
		chunk := make([]poker.CardSet, 0, cfg.ChunkSize)
		for key := range poker.Combinations(cfg.Deck, 7) {
			chunk = append(chunk, key)
			if len(chunk) < cfg.ChunkSize {
				continue
			}
			select {
			case jobs <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
			chunk = make([]poker.CardSet, 0, cfg.ChunkSize)
		}
		if len(chunk) > 0 {
			select {
			case jobs <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			for chunk := range jobs {
				rows, err := evaluateChunk(chunk)
				if err != nil {
					return err
				}
				select {
				case results <- rows:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		defer close(results)
		g.Wait()
	}()

	ticker := cfg.Clock.NewTicker(cfg.ProgressInterval)
	defer ticker.Stop()

	start := cfg.Clock.Now()
	var done uint64
	var sinkErr error
	logger.Info().Uint64("combinations", total).Int("workers", cfg.Workers).Msg("Generating seven-card cache")

collect:
	for {
		select {
		case rows, ok := <-results:
			if !ok {
				break collect
			}
			if sinkErr != nil {
				continue
			}
			if err := sink(rows); err != nil {
				sinkErr = err
				cancel()
				continue
			}
			done += uint64(len(rows))
		case <-ticker.C:
			logger.Info().
				Uint64("done", done).
				Uint64("total", total).
				Str("progress", fmt.Sprintf("%.1f%%", float64(done)/float64(total)*100)).
				Dur("elapsed", cfg.Clock.Since(start)).
				Msg("Cache generation progress")
		}
	}

	if sinkErr != nil {
		return sinkErr
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if done != total {
		return fmt.Errorf("bcm: generated %d of %d combinations", done, total)
	}

	logger.Info().Uint64("combinations", done).Dur("elapsed", cfg.Clock.Since(start)).Msg("Seven-card cache generated")
	return nil
}

func evaluateChunk(chunk []poker.CardSet) ([]Row, error) {
	rows := make([]Row, len(chunk))
	for i, key := range chunk {
		best, strength, err := poker.BestFive(key.Cards())
		if err != nil {
			return nil, fmt.Errorf("bcm: evaluate %s: %w", key, err)
		}
		rows[i] = Row{Key: key, Best: best.Set(), Strength: strength}
	}
	return rows, nil
}

// Build fills an Unbuilt cache by generating every combination of cfg.Deck
// in memory. The cache is Building while this runs and Ready afterwards; on
// error it returns to Unbuilt.
func (c *Cache) Build(ctx context.Context, cfg BuildConfig) error {
	if err := c.begin(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	entries := make(map[poker.CardSet]Entry, poker.Binomial(cfg.Deck.Count(), 7))
	err := Generate(ctx, cfg, c.logger, func(rows []Row) error {
		for _, r := range rows {
			entries[r.Key] = Entry{Best: r.Best, Strength: r.Strength}
		}
		return nil
	})
	return c.finish(entries, cfg.Deck, err)
}
