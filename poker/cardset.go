package poker

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// CardSet is a set of cards packed into a single 64-bit key, one bit per
// card at Card.Index(). Two sets with the same members always have the same
// value regardless of the order the cards were added, so a CardSet doubles as
// a hash-map key and a compact persisted form.
type CardSet uint64

// FullDeck contains all 52 cards.
const FullDeck CardSet = 1<<52 - 1

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

var deckCards = func() [DeckSize]Card {
	var cards [DeckSize]Card
	for suit := Suit(0); suit < NumSuits; suit++ {
		for rank := Rank(0); rank < NumRanks; rank++ {
			c := NewCard(rank, suit)
			cards[c.Index()] = c
		}
	}
	return cards
}()

// CardAt returns the card stored at bit index i (0..51).
func CardAt(i int) Card {
	return deckCards[i]
}

// Pack builds a CardSet from cards, rejecting blank and repeated cards.
func Pack(cards ...Card) (CardSet, error) {
	var set CardSet
	for _, c := range cards {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: blank card in %v", ErrDuplicateOrBlankCard, cards)
		}
		bit := CardSet(1) << c.Index()
		if set&bit != 0 {
			return 0, fmt.Errorf("%w: %s appears twice", ErrDuplicateOrBlankCard, c)
		}
		set |= bit
	}
	return set, nil
}

// MustPack packs cards and panics on error (for tests and constants).
func MustPack(cards ...Card) CardSet {
	set, err := Pack(cards...)
	if err != nil {
		panic(err)
	}
	return set
}

// Add returns the set with c added. Blank and other invalid cards are ignored.
func (s CardSet) Add(c Card) CardSet {
	if !c.Valid() {
		return s
	}
	return s | 1<<c.Index()
}

// Remove returns the set without c. Blank and other invalid cards are ignored.
func (s CardSet) Remove(c Card) CardSet {
	if !c.Valid() {
		return s
	}
	return s &^ (1 << c.Index())
}

// Contains reports whether c is in the set.
func (s CardSet) Contains(c Card) bool {
	return c.Valid() && s&(1<<c.Index()) != 0
}

// Union returns the cards in either set.
func (s CardSet) Union(o CardSet) CardSet {
	return s | o
}

// Without returns the cards of s that are not in o.
func (s CardSet) Without(o CardSet) CardSet {
	return s &^ o
}

// Intersects reports whether the sets share at least one card.
func (s CardSet) Intersects(o CardSet) bool {
	return s&o != 0
}

// Count returns the number of cards in the set.
func (s CardSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Cards returns the members in ascending index order.
func (s CardSet) Cards() []Card {
	cards := make([]Card, 0, s.Count())
	for rest := uint64(s & FullDeck); rest != 0; rest &= rest - 1 {
		cards = append(cards, deckCards[bits.TrailingZeros64(rest)])
	}
	return cards
}

// Unpack recovers the cards of a set that is known to hold n cards.
func (s CardSet) Unpack(n int) ([]Card, error) {
	if s&^FullDeck != 0 {
		return nil, fmt.Errorf("%w: key %#x has bits outside the deck", ErrWrongCardCount, uint64(s))
	}
	if got := s.Count(); got != n {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrWrongCardCount, n, got)
	}
	return s.Cards(), nil
}

// SuitMask returns the 13-bit rank mask of the cards of one suit.
func (s CardSet) SuitMask(suit Suit) uint16 {
	return uint16(uint64(s)>>(uint(suit)*NumRanks)) & 0x1FFF
}

// SuitMasks returns the rank masks of all four suits.
func (s CardSet) SuitMasks() [NumSuits]uint16 {
	return [NumSuits]uint16{
		s.SuitMask(Clubs),
		s.SuitMask(Diamonds),
		s.SuitMask(Hearts),
		s.SuitMask(Spades),
	}
}

// RankMask returns the 13-bit mask of ranks present in any suit.
func (s CardSet) RankMask() uint16 {
	m := s.SuitMasks()
	return m[0] | m[1] | m[2] | m[3]
}

// String lists the cards, e.g. "2c 7d As".
func (s CardSet) String() string {
	cards := s.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Combinations yields every k-card subset of set exactly once.
// Subsets are produced in lexicographic order of card index.
func Combinations(set CardSet, k int) iter.Seq[CardSet] {
	return func(yield func(CardSet) bool) {
		members := make([]CardSet, 0, set.Count())
		for rest := uint64(set & FullDeck); rest != 0; rest &= rest - 1 {
			members = append(members, CardSet(rest&-rest))
		}
		n := len(members)
		if k < 0 || k > n {
			return
		}

		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			var combo CardSet
			for _, i := range idx {
				combo |= members[i]
			}
			if !yield(combo) {
				return
			}

			j := k - 1
			for j >= 0 && idx[j] == n-k+j {
				j--
			}
			if j < 0 {
				return
			}
			idx[j]++
			for i := j + 1; i < k; i++ {
				idx[i] = idx[i-1] + 1
			}
		}
	}
}

// Binomial returns n choose k.
func Binomial(n, k int) uint64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := uint64(1)
	for i := 1; i <= k; i++ {
		result = result * uint64(n-k+i) / uint64(i)
	}
	return result
}
