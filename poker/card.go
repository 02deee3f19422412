package poker

import (
	"fmt"
	"strings"
)

// Card is a single playing card packed into independent bit-fields:
//
//	xxxbbbbb bbbbbbbb cdhsrrrr xxpppppp
//
// p = rank prime (2..41), r = rank value (0=Two .. 12=Ace),
// cdhs = one-hot suit bit, b = one-hot rank bit.
// The zero value is Blank, a card that has not been dealt.
type Card uint32

// Blank marks a card slot that has not been dealt.
const Blank Card = 0

// Rank is a card rank, 0 (Two) through 12 (Ace).
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks in a deck.
const NumRanks = 13

// Suit is a card suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits is the number of suits in a deck.
const NumSuits = 4

const (
	primeMask    = 0x3F
	rankShift    = 8
	rankMask     = 0xF << rankShift
	suitShift    = 12
	suitBitsMask = 0xF << suitShift
	rankBitShift = 16
)

var rankPrimes = [NumRanks]uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

var suitSymbols = [NumSuits]string{"♣", "♦", "♥", "♠"}

var rankNames = [NumRanks]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

var rankPlurals = [NumRanks]string{
	"Twos", "Threes", "Fours", "Fives", "Sixes", "Sevens", "Eights",
	"Nines", "Tens", "Jacks", "Queens", "Kings", "Aces",
}

// NewCard packs a rank and suit into a Card.
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint32(1)<<(rankBitShift+uint32(rank)) |
		uint32(1)<<(suitShift+uint32(suit)) |
		uint32(rank)<<rankShift |
		rankPrimes[rank])
}

// Rank returns the card rank.
func (c Card) Rank() Rank {
	return Rank((uint32(c) & rankMask) >> rankShift)
}

// Suit returns the card suit.
func (c Card) Suit() Suit {
	switch (uint32(c) & suitBitsMask) >> suitShift {
	case 1:
		return Clubs
	case 2:
		return Diamonds
	case 4:
		return Hearts
	default:
		return Spades
	}
}

// Prime returns the prime assigned to the card rank.
func (c Card) Prime() uint32 {
	return uint32(c) & primeMask
}

// RankBit returns the one-hot 13-bit rank mask of the card.
func (c Card) RankBit() uint16 {
	return uint16(uint32(c) >> rankBitShift)
}

// IsBlank reports whether the card has not been dealt.
func (c Card) IsBlank() bool {
	return c == Blank
}

// Valid reports whether c is exactly one of the 52 real cards.
func (c Card) Valid() bool {
	if c == Blank {
		return false
	}
	r := c.Rank()
	if r > Ace {
		return false
	}
	return c == NewCard(r, c.Suit())
}

// Index returns the position of the card in a CardSet (suit*13 + rank).
func (c Card) Index() int {
	return int(c.Suit())*NumRanks + int(c.Rank())
}

// String returns the short form, e.g. "As".
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// Pretty returns the card with a suit symbol, e.g. "A♠".
func (c Card) Pretty() string {
	if !c.Valid() {
		return "--"
	}
	return string(rankChars[c.Rank()]) + suitSymbols[c.Suit()]
}

// String returns the rank character.
func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(rankChars[r])
}

// Name returns the rank spelled out, e.g. "Queen".
func (r Rank) Name() string {
	if r > Ace {
		return "Unknown"
	}
	return rankNames[r]
}

// Plural returns the plural rank name, e.g. "Sixes".
func (r Rank) Plural() string {
	if r > Ace {
		return "Unknown"
	}
	return rankPlurals[r]
}

// String returns the suit character.
func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return string(suitChars[s])
}

// ParseCard parses a card such as "As", "td", "10h" or "A♠".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Blank, fmt.Errorf("%w: empty string", ErrInvalidCard)
	}
	card, n, err := parseCardPrefix(s)
	if err != nil {
		return Blank, err
	}
	if n != len(s) {
		return Blank, fmt.Errorf("%w: trailing characters in %q", ErrInvalidCard, s)
	}
	return card, nil
}

// ParseCards parses a run of cards such as "AsKd" or "A♠ K♦ 9c".
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	cards := make([]Card, 0, len(s)/2)
	for pos := 0; pos < len(s); {
		card, n, err := parseCardPrefix(s[pos:])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", pos, err)
		}
		cards = append(cards, card)
		pos += n
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

// parseCardPrefix parses one card at the start of s and returns the number
// of bytes consumed.
func parseCardPrefix(s string) (Card, int, error) {
	if len(s) < 2 {
		return Blank, 0, fmt.Errorf("%w: %q is too short", ErrInvalidCard, s)
	}

	n := 1
	rank, ok := parseRank(s[0])
	if strings.HasPrefix(s, "10") {
		rank, ok, n = Ten, true, 2
	}
	if !ok {
		return Blank, 0, fmt.Errorf("%w: invalid rank %q", ErrInvalidCard, s[0])
	}

	rest := s[n:]
	if rest == "" {
		return Blank, 0, fmt.Errorf("%w: missing suit in %q", ErrInvalidCard, s)
	}
	if idx := strings.IndexByte(suitChars, lower(rest[0])); idx >= 0 {
		return NewCard(rank, Suit(idx)), n + 1, nil
	}
	for suit, sym := range suitSymbols {
		if strings.HasPrefix(rest, sym) {
			return NewCard(rank, Suit(suit)), n + len(sym), nil
		}
	}
	return Blank, 0, fmt.Errorf("%w: invalid suit in %q", ErrInvalidCard, s)
}

func parseRank(c byte) (Rank, bool) {
	idx := strings.IndexByte(rankChars, upper(c))
	if idx < 0 {
		return 0, false
	}
	return Rank(idx), true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
