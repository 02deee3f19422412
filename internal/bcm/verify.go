package bcm

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/holdem-equity/poker"
)

// Mismatch records a sampled key whose cached entry disagrees with direct
// evaluation.
type Mismatch struct {
	Key    poker.CardSet
	Cached Entry
	Want   poker.Strength
	Err    error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("%s: %v", m.Key, m.Err)
	}
	return fmt.Sprintf("%s: cached %d (%s), evaluated %d", m.Key, m.Cached.Strength, m.Cached.Strength, m.Want)
}

// VerifyReport summarises a Verify run.
type VerifyReport struct {
	Samples    int
	Mismatches []Mismatch
}

// OK reports whether every sample matched.
func (r VerifyReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Verify draws random seven-card sets from the cache's deck and checks each
// cached entry against the best of its 21 five-card subsets.
func Verify(ctx context.Context, c *Cache, samples int, rng *rand.Rand) (VerifyReport, error) {
	if s := c.State(); s != Ready {
		return VerifyReport{}, fmt.Errorf("%w: state is %s", ErrNotReady, s)
	}
	deck := c.Deck()
	if deck.Count() < 7 {
		return VerifyReport{}, fmt.Errorf("%w: cache covers %d cards", ErrNotReady, deck.Count())
	}

	var report VerifyReport
	d := poker.NewDeckWithout(rng, poker.FullDeck.Without(deck))
	for i := 0; i < samples; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}
		d.Shuffle()
		cards := d.Deal(7)
		key := poker.MustPack(cards...)
		report.Samples++

		if m, ok := check(c, key); !ok {
			report.Mismatches = append(report.Mismatches, m)
		}
	}
	return report, nil
}

func check(c *Cache, key poker.CardSet) (Mismatch, bool) {
	cached, err := c.Lookup(key)
	if err != nil {
		return Mismatch{Key: key, Err: err}, false
	}
	best, want, err := poker.BestFive(key.Cards())
	if err != nil {
		return Mismatch{Key: key, Cached: cached, Err: err}, false
	}
	if cached.Strength != want || cached.Best != best.Set() {
		return Mismatch{Key: key, Cached: cached, Want: want}, false
	}
	return Mismatch{}, true
}
