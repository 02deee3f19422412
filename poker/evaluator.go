package poker

import (
	"fmt"
	"math/bits"
)

// Rank5 returns the strength of exactly five distinct cards. Flushes and
// hands without a repeated rank are a single lookup on the rank mask; paired
// hands are looked up by the product of their rank primes.
func Rank5(hand FiveCards) (Strength, error) {
	if _, err := Pack(hand[:]...); err != nil {
		return 0, err
	}
	return rank5(hand[0], hand[1], hand[2], hand[3], hand[4]), nil
}

func rank5(a, b, c, d, e Card) Strength {
	q := (a | b | c | d | e).RankBit()
	if a&b&c&d&e&suitBitsMask != 0 {
		return tables.flush[q]
	}
	if s := tables.unique[q]; s != 0 {
		return s
	}
	return tables.paired.lookup(a.Prime() * b.Prime() * c.Prime() * d.Prime() * e.Prime())
}

// BestFive returns the strongest five-card subset of 5, 6 or 7 cards by
// ranking every subset with Rank5.
func BestFive(cards []Card) (FiveCards, Strength, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return FiveCards{}, 0, fmt.Errorf("%w: need 5 to 7 cards, got %d", ErrWrongCardCount, len(cards))
	}
	if _, err := Pack(cards...); err != nil {
		return FiveCards{}, 0, err
	}

	var best FiveCards
	var bestStrength Strength
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						s := rank5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if s > bestStrength {
							bestStrength = s
							best = FiveCards{cards[a], cards[b], cards[c], cards[d], cards[e]}
						}
					}
				}
			}
		}
	}
	return best, bestStrength, nil
}

// Evaluate returns the strength of the best hand in a set of 5 to 7 cards.
// It works directly on the suit masks and agrees with BestFive.
func Evaluate(set CardSet) (Strength, error) {
	if n := set.Count(); n < 5 || n > 7 || set&^FullDeck != 0 {
		return 0, fmt.Errorf("%w: need 5 to 7 cards, got %d", ErrWrongCardCount, n)
	}
	return evaluateMasks(set.SuitMasks()), nil
}

func evaluateMasks(suits [NumSuits]uint16) Strength {
	for _, suitMask := range suits {
		if bits.OnesCount16(suitMask) >= 5 {
			if high := straightHigh(suitMask); high > 0 {
				return Strength(baseStraightFlush + straightIndex(high))
			}
			return Strength(baseFlush + distinctIndex(topRanks(suitMask, 5)))
		}
	}

	s0, s1, s2, s3 := suits[0], suits[1], suits[2], suits[3]
	rankMask := s0 | s1 | s2 | s3

	quads := s0 & s1 & s2 & s3
	atLeastThree := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	trips := atLeastThree &^ quads
	pairs := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ atLeastThree

	if quads != 0 {
		q := highest(quads)
		kicker := highest(rankMask &^ bit(q))
		return Strength(baseFourOfAKind + uint16(q)*12 + ordinal(kicker, bit(q)))
	}

	if trips != 0 {
		t := highest(trips)
		if candidates := pairs | trips&^bit(t); candidates != 0 {
			p := highest(candidates)
			return Strength(baseFullHouse + uint16(t)*12 + ordinal(p, bit(t)))
		}
	}

	if high := straightHigh(rankMask); high > 0 {
		return Strength(baseStraight + straightIndex(high))
	}

	if trips != 0 {
		t := highest(trips)
		kickers := compress(topRanks(rankMask&^bit(t), 2), bit(t))
		return Strength(baseThreeOfAKind + uint16(t)*66 + colex(kickers))
	}

	if pairs != 0 {
		hp := highest(pairs)
		if rest := pairs &^ bit(hp); rest != 0 {
			lp := highest(rest)
			used := bit(hp) | bit(lp)
			kicker := highest(rankMask &^ used)
			return Strength(baseTwoPair + colex(used)*11 + ordinal(kicker, used))
		}
		kickers := compress(topRanks(rankMask&^bit(hp), 3), bit(hp))
		return Strength(basePair + uint16(hp)*220 + colex(kickers))
	}

	return Strength(baseHighCard + distinctIndex(topRanks(rankMask, 5)))
}

// binomials[n][k] = n choose k for the small values colex ranking needs.
var binomials = func() [NumRanks + 1][6]uint16 {
	var t [NumRanks + 1][6]uint16
	for n := range t {
		t[n][0] = 1
		for k := 1; k < 6 && k <= n; k++ {
			t[n][k] = t[n-1][k-1]
			if k < n {
				t[n][k] += t[n-1][k]
			}
		}
	}
	return t
}()

// colex returns the position of a rank mask among all masks with the same
// number of bits, ordered by highest rank first (colexicographic order).
func colex(mask uint16) uint16 {
	var idx uint16
	k := 1
	for rest := mask; rest != 0; rest &= rest - 1 {
		r := bits.TrailingZeros16(rest)
		idx += binomials[r][k]
		k++
	}
	return idx
}

// straightColex lists the colex positions of the ten straights, ascending.
var straightColex = func() [straightCount]uint16 {
	var out [straightCount]uint16
	out[0] = colex(wheelMask)
	for high := 4; high <= int(Ace); high++ {
		out[high-3] = colex(uint16(0x1F) << (high - 4))
	}
	return out
}()

// distinctIndex ranks five distinct non-straight ranks from 0 (7-5-4-3-2)
// to 1276 (A-K-Q-J-9).
func distinctIndex(mask uint16) uint16 {
	idx := colex(mask)
	var below uint16
	for _, s := range straightColex {
		if s < idx {
			below++
		}
	}
	return idx - below
}

const wheelMask = 0x100F // A-5-4-3-2

// straightHigh returns the top rank of the best straight in mask, or 0.
// The wheel reports Five.
func straightHigh(mask uint16) Rank {
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return Rank(bits.Len16(seq)-1) + 4
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}

// straightIndex orders straights from the wheel (0) to broadway (9).
func straightIndex(high Rank) uint16 {
	return uint16(high - Five)
}

func highest(mask uint16) Rank {
	return Rank(bits.Len16(mask) - 1)
}

func bit(r Rank) uint16 {
	return 1 << r
}

// topRanks keeps the n highest ranks of mask.
func topRanks(mask uint16, n int) uint16 {
	for bits.OnesCount16(mask) > n {
		mask &= mask - 1
	}
	return mask
}

// ordinal is the position of r among the ranks not in excluded.
func ordinal(r Rank, excluded uint16) uint16 {
	return uint16(r) - uint16(bits.OnesCount16(excluded&(bit(r)-1)))
}

// compress renumbers the ranks of mask as ordinals that skip excluded ranks.
func compress(mask, excluded uint16) uint16 {
	var out uint16
	for rest := mask; rest != 0; rest &= rest - 1 {
		r := Rank(bits.TrailingZeros16(rest))
		out |= 1 << ordinal(r, excluded)
	}
	return out
}
