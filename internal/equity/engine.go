// Package equity enumerates every completion of a partial board and folds
// the per-case winners into wins, results and outs.
package equity

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-equity/internal/bcm"
	"github.com/lox/holdem-equity/poker"
)

const (
	defaultChunkSize         = 2048
	defaultParallelThreshold = 10000
)

// SevenCardCache resolves complete seven-card hands. *bcm.Cache satisfies it.
type SevenCardCache interface {
	MustLookup(poker.CardSet) bcm.Entry
}

// Ranker returns the strength of the best hand in a set of 5 to 7 cards.
type Ranker func(poker.CardSet) (poker.Strength, error)

// Config configures an Engine. Zero values pick defaults.
type Config struct {
	// Cache answers seven-card hands when set. Fewer cards are always
	// evaluated directly.
	Cache SevenCardCache
	// Ranker replaces the cache/evaluator dispatch entirely.
	Ranker Ranker
	Logger *log.Logger
	// Workers in parallel mode; zero means one per CPU.
	Workers int
	// ChunkSize is the number of cases a parallel worker takes at once and
	// how often cancellation is checked.
	ChunkSize int
	// ParallelThreshold is the case count from which Enumerate runs in parallel.
	ParallelThreshold uint64
	Clock             quartz.Clock
}

// Engine runs enumerations. It is safe for concurrent use.
type Engine struct {
	cfg    Config
	rank   Ranker
	logger *log.Logger
	clock  quartz.Clock
}

// New returns an Engine for cfg.
func New(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.ParallelThreshold == 0 {
		cfg.ParallelThreshold = defaultParallelThreshold
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	e := &Engine{cfg: cfg, logger: cfg.Logger, clock: cfg.Clock}
	switch {
	case cfg.Ranker != nil:
		e.rank = cfg.Ranker
	case cfg.Cache != nil:
		e.rank = cachedRanker(cfg.Cache)
	default:
		e.rank = poker.Evaluate
	}
	return e
}

// cachedRanker looks seven-card hands up in the cache. A miss panics: the
// cache is either complete or unusable.
func cachedRanker(cache SevenCardCache) Ranker {
	return func(set poker.CardSet) (poker.Strength, error) {
		if set.Count() == 7 {
			return cache.MustLookup(set).Strength, nil
		}
		return poker.Evaluate(set)
	}
}

// deal is a validated enumeration input.
type deal struct {
	holes     []poker.CardSet
	board     poker.CardSet
	remaining poker.CardSet
	missing   int
	cases     uint64
}

func newDeal(players []poker.Hole, board poker.Board) (deal, error) {
	if err := poker.Validate(players, board); err != nil {
		return deal{}, err
	}
	d := deal{
		holes:   make([]poker.CardSet, len(players)),
		board:   board.Set(),
		missing: board.Missing(),
	}
	used := d.board
	for i, h := range players {
		d.holes[i] = h.Set()
		used |= d.holes[i]
	}
	d.remaining = poker.FullDeck.Without(used)
	d.cases = poker.Binomial(d.remaining.Count(), d.missing)
	return d, nil
}

// outcome ranks every player against one completed board.
func (d deal) outcome(rank Ranker, completion poker.CardSet) (PlayerFlag, error) {
	board := d.board | completion
	var best poker.Strength
	var flag PlayerFlag
	for i, hole := range d.holes {
		s, err := rank(hole | board)
		if err != nil {
			return 0, fmt.Errorf("player %d on %s: %w", i+1, board, err)
		}
		switch {
		case s > best:
			best = s
			flag = FlagOf(i)
		case s == best:
			flag = flag.With(i)
		}
	}
	return flag, nil
}

// Cases returns the number of completions an enumeration of players and
// board would visit.
func Cases(players []poker.Hole, board poker.Board) (uint64, error) {
	d, err := newDeal(players, board)
	if err != nil {
		return 0, err
	}
	return d.cases, nil
}
