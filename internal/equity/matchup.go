package equity

import (
	"context"
	"fmt"

	"github.com/lox/holdem-equity/poker"
)

// Matchup is the preflop result of one hand against another, counted from
// the first hand's point of view.
type Matchup struct {
	Wins   uint64
	Losses uint64
	Ties   uint64
}

// Total returns the number of boards counted.
func (m Matchup) Total() uint64 {
	return m.Wins + m.Losses + m.Ties
}

// Swap returns the same matchup from the other hand's point of view.
func (m Matchup) Swap() Matchup {
	return Matchup{Wins: m.Losses, Losses: m.Wins, Ties: m.Ties}
}

// Equity is the first hand's pot share in percent, ties split.
func (m Matchup) Equity() float64 {
	return percent(float64(m.Wins)+float64(m.Ties)/2, m.Total())
}

// Matchup enumerates every board for a against b. It is a pure function of
// the two hands, which lets callers memoize it.
func (e *Engine) Matchup(ctx context.Context, a, b poker.Hole) (Matchup, error) {
	res, err := e.Enumerate(ctx, []poker.Hole{a, b}, poker.Board{})
	if err != nil {
		return Matchup{}, err
	}
	if !res.Complete() {
		return Matchup{}, fmt.Errorf("%w: %d of %d cases skipped", ErrIncomplete, res.Skipped, res.Cases)
	}
	return Matchup{
		Wins:   res.Wins.Count(FlagOf(0)),
		Losses: res.Wins.Count(FlagOf(1)),
		Ties:   res.Wins.Count(FlagOf(0).With(1)),
	}, nil
}

// Canonical orders two hands so the higher-ranked one comes first and
// reports whether they were swapped. Each hand is also normalised to put
// its higher card first, so equal hands always produce the same pair.
func Canonical(a, b poker.Hole) (high, low poker.Hole, swapped bool) {
	a, b = normalise(a), normalise(b)
	if holeLess(a, b) {
		return b, a, true
	}
	return a, b, false
}

func normalise(h poker.Hole) poker.Hole {
	if cardLess(h[0], h[1]) {
		return poker.Hole{h[1], h[0]}
	}
	return h
}

func cardLess(x, y poker.Card) bool {
	if x.Rank() != y.Rank() {
		return x.Rank() < y.Rank()
	}
	return x.Suit() < y.Suit()
}

// holeLess orders normalised hands: pairs above unpaired hands, then by top
// card, then by second card, then suited above offsuit, then by suit.
func holeLess(a, b poker.Hole) bool {
	ap, bp := a[0].Rank() == a[1].Rank(), b[0].Rank() == b[1].Rank()
	if ap != bp {
		return bp
	}
	if a[0].Rank() != b[0].Rank() {
		return a[0].Rank() < b[0].Rank()
	}
	if a[1].Rank() != b[1].Rank() {
		return a[1].Rank() < b[1].Rank()
	}
	as, bs := a[0].Suit() == a[1].Suit(), b[0].Suit() == b[1].Suit()
	if as != bs {
		return bs
	}
	if a[0] != b[0] {
		return cardLess(a[0], b[0])
	}
	return cardLess(a[1], b[1])
}
