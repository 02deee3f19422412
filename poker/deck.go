package poker

import (
	rand "math/rand/v2"
)

// Deck deals cards in a random order from the cards that are not yet used.
type Deck struct {
	cards [DeckSize]Card // Fixed size array
	size  int
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled 52-card deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	return NewDeckWithout(rng, 0)
}

// NewDeckWithout creates a shuffled deck holding every card not in dealt.
func NewDeckWithout(rng *rand.Rand, dealt CardSet) *Deck {
	d := &Deck{rng: rng}
	for _, c := range FullDeck.Without(dealt).Cards() {
		d.cards[d.size] = c
		d.size++
	}
	d.Shuffle()
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	for i := d.size - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck
func (d *Deck) Deal(n int) []Card {
	if d.next+n > d.size {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() Card {
	if d.next >= d.size {
		return Blank
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// DealHole deals two hole cards.
func (d *Deck) DealHole() (Hole, bool) {
	cards := d.Deal(2)
	if cards == nil {
		return Hole{}, false
	}
	return Hole{cards[0], cards[1]}, true
}

// Reset resets and reshuffles the deck
func (d *Deck) Reset() {
	d.Shuffle()
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}
