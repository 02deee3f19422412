package poker

import (
	"fmt"
	"strings"
)

// MaxPlayers is the most players a single deck can serve with a full board.
const MaxPlayers = (DeckSize - 5) / 2

// Hole is a player's two private cards. Either both cards are dealt or the
// whole value is blank.
type Hole [2]Card

// FiveCards is a complete five-card poker hand.
type FiveCards [5]Card

// SevenCards is two hole cards plus a full board.
type SevenCards [7]Card

// NewHole validates and returns a pair of hole cards.
func NewHole(a, b Card) (Hole, error) {
	if _, err := Pack(a, b); err != nil {
		return Hole{}, err
	}
	return Hole{a, b}, nil
}

// ParseHole parses hole cards such as "AsKd".
func ParseHole(s string) (Hole, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Hole{}, err
	}
	if len(cards) != 2 {
		return Hole{}, fmt.Errorf("%w: hole cards need 2 cards, got %d in %q", ErrWrongCardCount, len(cards), s)
	}
	return NewHole(cards[0], cards[1])
}

// MustParseHole parses hole cards and panics on error (for tests)
func MustParseHole(s string) Hole {
	h, err := ParseHole(s)
	if err != nil {
		panic(err)
	}
	return h
}

// IsBlank reports whether the hole cards have not been dealt.
func (h Hole) IsBlank() bool {
	return h[0].IsBlank() && h[1].IsBlank()
}

// Set returns the hole cards as a CardSet.
func (h Hole) Set() CardSet {
	return CardSet(0).Add(h[0]).Add(h[1])
}

// String returns the cards, e.g. "AsKd".
func (h Hole) String() string {
	return h[0].String() + h[1].String()
}

// Set returns the five cards as a CardSet.
func (f FiveCards) Set() CardSet {
	var s CardSet
	for _, c := range f {
		s = s.Add(c)
	}
	return s
}

// String returns the five cards separated by spaces.
func (f FiveCards) String() string {
	return joinCards(f[:])
}

// Set returns the seven cards as a CardSet.
func (s SevenCards) Set() CardSet {
	var set CardSet
	for _, c := range s {
		set = set.Add(c)
	}
	return set
}

// Stage is how far the board has been dealt.
type Stage uint8

const (
	Preflop Stage = iota
	Flop
	Turn
	River
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// Board holds the community cards dealt so far: none, the flop, the turn or
// the river. Partial flops cannot be represented.
type Board struct {
	cards [5]Card
	n     uint8
}

// NewBoard builds a board from 0, 3, 4 or 5 distinct cards.
func NewBoard(cards ...Card) (Board, error) {
	switch len(cards) {
	case 0, 3, 4, 5:
	default:
		return Board{}, fmt.Errorf("%w: %d cards (want 0, 3, 4 or 5)", ErrInvalidBoard, len(cards))
	}
	if _, err := Pack(cards...); err != nil {
		return Board{}, err
	}
	var b Board
	b.n = uint8(copy(b.cards[:], cards))
	return b, nil
}

// ParseBoard parses community cards such as "9c6d5h".
func ParseBoard(s string) (Board, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Board{}, err
	}
	return NewBoard(cards...)
}

// MustParseBoard parses a board and panics on error (for tests)
func MustParseBoard(s string) Board {
	b, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Deal returns the board advanced by cards: three from preflop, one
// from the flop or turn.
func (b Board) Deal(cards ...Card) (Board, error) {
	want := 1
	switch b.n {
	case 0:
		want = 3
	case 5:
		return Board{}, fmt.Errorf("%w: river already dealt", ErrInvalidBoard)
	}
	if len(cards) != want {
		return Board{}, fmt.Errorf("%w: %s needs %d cards, got %d", ErrInvalidBoard, b.Stage()+1, want, len(cards))
	}
	return NewBoard(append(b.Cards(), cards...)...)
}

// Stage returns how far the board has been dealt.
func (b Board) Stage() Stage {
	switch b.n {
	case 3:
		return Flop
	case 4:
		return Turn
	case 5:
		return River
	default:
		return Preflop
	}
}

// Len returns the number of dealt board cards.
func (b Board) Len() int {
	return int(b.n)
}

// Missing returns the number of board cards still to come.
func (b Board) Missing() int {
	return 5 - int(b.n)
}

// Cards returns a copy of the dealt board cards.
func (b Board) Cards() []Card {
	out := make([]Card, b.n)
	copy(out, b.cards[:b.n])
	return out
}

// Set returns the dealt board cards as a CardSet.
func (b Board) Set() CardSet {
	var s CardSet
	for _, c := range b.cards[:b.n] {
		s = s.Add(c)
	}
	return s
}

// String returns the dealt cards separated by spaces.
func (b Board) String() string {
	return joinCards(b.cards[:b.n])
}

// Validate checks that players and board form a legal deal: between two and
// MaxPlayers players, no blank cards, and no card held twice.
func Validate(players []Hole, board Board) error {
	if len(players) < 2 || len(players) > MaxPlayers {
		return fmt.Errorf("%w: %d players (want 2..%d)", ErrPlayerCount, len(players), MaxPlayers)
	}
	used := board.Set()
	for i, h := range players {
		set, err := Pack(h[0], h[1])
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		if used.Intersects(set) {
			return fmt.Errorf("%w: player %d holds %s", ErrOverlappingCards, i+1, set&used)
		}
		used |= set
	}
	return nil
}

func joinCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
