package equity

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-equity/internal/bcm"
	"github.com/lox/holdem-equity/poker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holes(ss ...string) []poker.Hole {
	out := make([]poker.Hole, len(ss))
	for i, s := range ss {
		out[i] = poker.MustParseHole(s)
	}
	return out
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewMock(t)
	}
	return New(cfg)
}

func TestFlopScenario(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, Config{})
	players := holes("6s6h", "5d5c")
	board := poker.MustParseBoard("9c6d5h")

	res, err := e.Enumerate(context.Background(), players, board)
	require.NoError(t, err)

	assert.True(t, res.Complete())
	assert.Equal(t, uint64(990), res.Cases)
	assert.Equal(t, uint64(990), res.Wins.Total())

	// Player 2 needs the last five without the last six; both play a
	// straight on any seven and eight.
	assert.Equal(t, uint64(931), res.Wins.Count(FlagOf(0)))
	assert.Equal(t, uint64(43), res.Wins.Count(FlagOf(1)))
	assert.Equal(t, uint64(16), res.Wins.Count(FlagOf(0).With(1)))

	r := res.Results()
	assert.Greater(t, r.Players[0].WinPercent(), 90.0)
	assert.Equal(t, uint64(947), r.Players[0].Hits)
	assert.Equal(t, uint64(16), r.Players[1].Ties)
}

func TestPreflopAcesAgainstSevens(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("full preflop enumeration")
	}
	e := newTestEngine(t, Config{})

	m, err := e.Matchup(context.Background(), poker.MustParseHole("AsAh"), poker.MustParseHole("7d7c"))
	require.NoError(t, err)
	assert.Equal(t, Matchup{Wins: 1364608, Losses: 343300, Ties: 4396}, m)
	assert.Equal(t, uint64(1712304), m.Total())
}

func TestTurnOuts(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, Config{})
	players := holes("AsKh", "8d6c")
	board := poker.MustParseBoard("Ac8h7h9s")

	outs, err := e.Outs(context.Background(), players, board)
	require.NoError(t, err)

	assert.Equal(t, 31, outs.Count(0))
	assert.Equal(t, 13, outs.Count(1))
	assert.LessOrEqual(t, outs.Count(0)+outs.Count(1), 44)
	assert.Zero(t, outs.For(0)&outs.For(1), "no river ties here")
	assert.Equal(t, 0, outs.Leader())

	want := poker.MustPack(poker.MustParseCards("5c 5d 5h 5s Tc Td Th Ts 8c 8s 6d 6h 6s")...)
	assert.Equal(t, want, outs.For(1))
	assert.Equal(t, uint64(44), outs.Wins.Total())
}

func TestFlopOutsUseSixCards(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	e := newTestEngine(t, Config{Ranker: func(set poker.CardSet) (poker.Strength, error) {
		calls.Add(1)
		if set.Count() != 6 {
			return 0, errors.New("expected six cards")
		}
		return poker.Evaluate(set)
	}})

	outs, err := e.Outs(context.Background(), holes("AsKs", "QhQd"), poker.MustParseBoard("2s7s9c"))
	require.NoError(t, err)
	assert.Zero(t, outs.Skipped)
	assert.Equal(t, int64(2*45), calls.Load())

	// Any spade gives the flush; an ace or king pairs the overcards.
	assert.True(t, outs.For(0).Contains(poker.MustParseCards("3s")[0]))
	assert.True(t, outs.For(0).Contains(poker.MustParseCards("Ah")[0]))
	assert.False(t, outs.For(0).Contains(poker.MustParseCards("3h")[0]))
	assert.Equal(t, 1, outs.Leader())
}

func TestOutsNeedOneCardAway(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, Config{})
	players := holes("AsKh", "8d6c")

	_, err := e.Outs(context.Background(), players, poker.Board{})
	assert.ErrorIs(t, err, ErrNotOneCardAway)

	_, err = e.Outs(context.Background(), players, poker.MustParseBoard("Ac8h7h9s2d"))
	assert.ErrorIs(t, err, ErrNotOneCardAway)
}

func TestSequentialMatchesParallel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		players []poker.Hole
		board   string
	}{
		{"heads-up flop", holes("AsKs", "QhQd"), "2s7s9c"},
		{"three-way flop", holes("AsKs", "QhQd", "Jc9c"), "Tc8c2h"},
		{"four-way turn", holes("AsAd", "KhKd", "7c6c", "2h3h"), "Ac8c5h4d"},
		{"chopped board", holes("2c3d", "2h3s"), "AsKsQsJsTs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, Config{Workers: 4, ChunkSize: 7})
			board := poker.MustParseBoard(tc.board)

			seq, err := e.EnumerateSequential(context.Background(), tc.players, board)
			require.NoError(t, err)
			par, err := e.EnumerateParallel(context.Background(), tc.players, board)
			require.NoError(t, err)

			assert.True(t, seq.Wins.Equal(par.Wins), "sequential %v != parallel %v", seq.Wins.Flags(), par.Wins.Flags())
			assert.Equal(t, seq.Cases, par.Cases)
			assert.Equal(t, seq.Results(), par.Results())

			// Conservation: every case is counted exactly once.
			assert.Equal(t, seq.Expected, seq.Cases)
			assert.Equal(t, seq.Cases, seq.Wins.Total())
			assert.Equal(t, par.Cases, par.Wins.Total())
		})
	}
}

func TestRiverIsOneCase(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, Config{})
	players := holes("2c3d", "2h3s")
	board := poker.MustParseBoard("AsKsQsJsTs")

	for _, enumerate := range []func(context.Context, []poker.Hole, poker.Board) (Enumeration, error){
		e.Enumerate, e.EnumerateSequential, e.EnumerateParallel,
	} {
		res, err := enumerate(context.Background(), players, board)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), res.Cases)
		assert.Equal(t, uint64(1), res.Wins.Count(FlagOf(0).With(1)))
		assert.Equal(t, time.Duration(0), res.Elapsed, "mock clock never advances")
	}
}

func TestInvalidInputRejectedBeforeEnumeration(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	e := newTestEngine(t, Config{Ranker: func(set poker.CardSet) (poker.Strength, error) {
		calls.Add(1)
		return poker.Evaluate(set)
	}})

	_, err := e.Enumerate(context.Background(), holes("AsKs", "AsQd"), poker.Board{})
	assert.ErrorIs(t, err, poker.ErrOverlappingCards)

	_, err = e.Enumerate(context.Background(), holes("AsKs", "QhQd"), poker.MustParseBoard("Ks2c3c"))
	assert.ErrorIs(t, err, poker.ErrOverlappingCards)

	_, err = e.EnumerateParallel(context.Background(), holes("AsKs"), poker.Board{})
	assert.ErrorIs(t, err, poker.ErrPlayerCount)

	_, err = e.EnumerateSequential(context.Background(), []poker.Hole{poker.MustParseHole("AsKs"), {}}, poker.Board{})
	assert.ErrorIs(t, err, poker.ErrDuplicateOrBlankCard)

	assert.Zero(t, calls.Load())
}

func TestFailingCasesAreSkipped(t *testing.T) {
	t.Parallel()
	deuce := poker.MustParseCards("2c")[0]
	ranker := func(set poker.CardSet) (poker.Strength, error) {
		if set.Contains(deuce) {
			return 0, errors.New("bad case")
		}
		return poker.Evaluate(set)
	}
	e := newTestEngine(t, Config{Ranker: ranker, Workers: 3, ChunkSize: 5})
	players := holes("AsKs", "QhQd")
	board := poker.MustParseBoard("2s7s9c")

	for _, enumerate := range []func(context.Context, []poker.Hole, poker.Board) (Enumeration, error){
		e.EnumerateSequential, e.EnumerateParallel,
	} {
		res, err := enumerate(context.Background(), players, board)
		require.NoError(t, err)

		// 44 of the 990 completions contain the two of clubs.
		assert.Equal(t, uint64(990), res.Cases)
		assert.Equal(t, uint64(44), res.Skipped)
		assert.Equal(t, res.Cases-res.Skipped, res.Wins.Total())
		assert.False(t, res.Complete())
	}
}

func TestMatchupRejectsIncompleteEnumeration(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("full preflop enumeration")
	}
	deuce := poker.MustParseCards("2c")[0]
	e := newTestEngine(t, Config{
		Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
		Ranker: func(set poker.CardSet) (poker.Strength, error) {
			if set.Contains(deuce) {
				return 0, errors.New("bad case")
			}
			return poker.Evaluate(set)
		},
	})

	_, err := e.Matchup(context.Background(), poker.MustParseHole("AsKs"), poker.MustParseHole("QhQd"))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestCancelledEnumeration(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, Config{})
	players := holes("AsKs", "QhQd")

	res, err := e.EnumerateSequential(ctx, players, poker.Board{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.Complete())

	res, err = e.EnumerateParallel(ctx, players, poker.Board{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.Complete())
}

// countingCache answers seven-card lookups by direct evaluation.
type countingCache struct {
	lookups atomic.Int64
	missing poker.CardSet
}

func (c *countingCache) MustLookup(set poker.CardSet) bcm.Entry {
	c.lookups.Add(1)
	if set.Count() != 7 {
		panic("lookup with fewer than seven cards")
	}
	if set&c.missing != 0 {
		panic(bcm.ErrMissingEntry)
	}
	best, s, err := poker.BestFive(set.Cards())
	if err != nil {
		panic(err)
	}
	return bcm.Entry{Best: best.Set(), Strength: s}
}

func TestCacheUsedForSevenCards(t *testing.T) {
	t.Parallel()
	cache := &countingCache{}
	e := newTestEngine(t, Config{Cache: cache})
	players := holes("6s6h", "5d5c")
	board := poker.MustParseBoard("9c6d5h")

	res, err := e.Enumerate(context.Background(), players, board)
	require.NoError(t, err)
	assert.Equal(t, uint64(931), res.Wins.Count(FlagOf(0)))
	assert.Equal(t, int64(2*990), cache.lookups.Load())

	// Flop outs rank six cards and must bypass the cache.
	before := cache.lookups.Load()
	_, err = e.Outs(context.Background(), players, board)
	require.NoError(t, err)
	assert.Equal(t, before, cache.lookups.Load())
}

func TestCacheMissPanics(t *testing.T) {
	t.Parallel()
	cache := &countingCache{missing: poker.MustPack(poker.MustParseCards("2c")...)}
	e := newTestEngine(t, Config{Cache: cache})

	assert.Panics(t, func() {
		_, _ = e.EnumerateSequential(context.Background(), holes("6s6h", "5d5c"), poker.MustParseBoard("9c6d5h"))
	})
}

func TestEngineWithUnbuiltCachePanics(t *testing.T) {
	t.Parallel()
	c := bcm.New(zerolog.Nop())
	assert.Panics(t, func() {
		New(Config{Cache: c}).EnumerateSequential(context.Background(), holes("6s6h", "5d5c"), poker.MustParseBoard("9c6d5h"))
	}, "an unbuilt cache is not usable")
}

func TestCases(t *testing.T) {
	t.Parallel()
	tests := []struct {
		board string
		want  uint64
	}{
		{"", 1712304},
		{"9c6d5h", 990},
		{"9c6d5h2s", 44},
		{"9c6d5h2sAh", 1},
	}
	for _, tc := range tests {
		n, err := Cases(holes("AsKs", "QhQd"), poker.MustParseBoard(tc.board))
		require.NoError(t, err)
		assert.Equal(t, tc.want, n, "board %q", tc.board)
	}
}
