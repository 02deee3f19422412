// Package crosscheck compares hand strengths against an independent
// seven-card evaluator on random deals.
package crosscheck

import (
	"context"
	"fmt"
	"maps"
	rand "math/rand/v2"
	"slices"

	ph "github.com/paulhankin/poker"

	"github.com/lox/holdem-equity/poker"
)

// Evaluator returns the strength of a seven-card set.
type Evaluator func(poker.CardSet) (poker.Strength, error)

// Sample is one dealt hand with both scores.
type Sample struct {
	Key       poker.CardSet
	Strength  poker.Strength
	Reference int16
}

// Disagreement is a pair of hands the two evaluators order differently.
type Disagreement struct {
	A, B Sample
}

func (d Disagreement) String() string {
	return fmt.Sprintf("%s (%d, ref %d) vs %s (%d, ref %d)",
		d.A.Key, d.A.Strength, d.A.Reference, d.B.Key, d.B.Strength, d.B.Reference)
}

// Report summarises a Run.
type Report struct {
	Samples       int
	Classes       int
	Disagreements []Disagreement
}

// OK reports whether the evaluators agreed on every sample.
func (r Report) OK() bool {
	return len(r.Disagreements) == 0
}

// Reference scores seven cards with the independent evaluator. Greater is
// stronger and equal hands score equal.
func Reference(cards poker.SevenCards) (int16, error) {
	var hand [7]ph.Card
	for i, c := range cards {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: card %d", poker.ErrInvalidCard, i+1)
		}
		rc, err := ph.MakeCard(ph.Suit(c.Suit()), referenceRank(c.Rank()))
		if err != nil {
			return 0, fmt.Errorf("card %s: %w", c, err)
		}
		hand[i] = rc
	}
	return ph.Eval7(&hand), nil
}

// referenceRank maps Two..Ace onto the reference numbering where the ace is 1.
func referenceRank(r poker.Rank) ph.Rank {
	if r == poker.Ace {
		return 1
	}
	return ph.Rank(r + 2)
}

// Run deals samples random seven-card hands and checks that eval and the
// reference evaluator induce the same ordering: equal hands are equal under
// both, and the classes seen sort identically.
func Run(ctx context.Context, eval Evaluator, samples int, rng *rand.Rand) (Report, error) {
	var report Report
	byStrength := make(map[poker.Strength]Sample)
	byReference := make(map[int16]Sample)

	deck := poker.NewDeck(rng)
	for i := 0; i < samples; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}
		deck.Shuffle()
		var cards poker.SevenCards
		copy(cards[:], deck.Deal(7))

		s, err := score(eval, cards)
		if err != nil {
			return report, err
		}
		report.Samples++

		if prev, ok := byStrength[s.Strength]; ok && prev.Reference != s.Reference {
			report.Disagreements = append(report.Disagreements, Disagreement{prev, s})
		} else if !ok {
			byStrength[s.Strength] = s
		}
		if prev, ok := byReference[s.Reference]; ok && prev.Strength != s.Strength {
			report.Disagreements = append(report.Disagreements, Disagreement{prev, s})
		} else if !ok {
			byReference[s.Reference] = s
		}
	}

	classes := slices.Sorted(maps.Keys(byStrength))
	report.Classes = len(classes)
	for i := 1; i < len(classes); i++ {
		lo, hi := byStrength[classes[i-1]], byStrength[classes[i]]
		if hi.Reference <= lo.Reference {
			report.Disagreements = append(report.Disagreements, Disagreement{lo, hi})
		}
	}
	return report, nil
}

func score(eval Evaluator, cards poker.SevenCards) (Sample, error) {
	key := cards.Set()
	strength, err := eval(key)
	if err != nil {
		return Sample{}, fmt.Errorf("evaluate %s: %w", key, err)
	}
	ref, err := Reference(cards)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Key: key, Strength: strength, Reference: ref}, nil
}
