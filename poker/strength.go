package poker

import "fmt"

// Strength totally orders the 7462 distinct five-card hand classes.
// Greater values are stronger: 1 is 7-5-4-3-2 offsuit and 7462 is a royal
// flush. Zero is not a valid strength.
type Strength uint16

// Class enumerates the categories of poker hands ordered from weakest to strongest.
type Class uint8

const (
	HighCard Class = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const (
	highCardCount      = 1277
	pairCount          = 13 * 220
	twoPairCount       = 78 * 11
	threeOfAKindCount  = 13 * 66
	straightCount      = 10
	flushCount         = 1277
	fullHouseCount     = 13 * 12
	fourOfAKindCount   = 13 * 12
	straightFlushCount = 10
)

const (
	baseHighCard      = 1
	basePair          = baseHighCard + highCardCount
	baseTwoPair       = basePair + pairCount
	baseThreeOfAKind  = baseTwoPair + twoPairCount
	baseStraight      = baseThreeOfAKind + threeOfAKindCount
	baseFlush         = baseStraight + straightCount
	baseFullHouse     = baseFlush + flushCount
	baseFourOfAKind   = baseFullHouse + fullHouseCount
	baseStraightFlush = baseFourOfAKind + fourOfAKindCount
)

const (
	// MinStrength is the weakest possible hand.
	MinStrength Strength = baseHighCard
	// MaxStrength is a royal flush.
	MaxStrength Strength = baseStraightFlush + straightFlushCount - 1
)

// classBases holds the first strength of each class, indexed by Class.
var classBases = [...]Strength{
	baseHighCard,
	basePair,
	baseTwoPair,
	baseThreeOfAKind,
	baseStraight,
	baseFlush,
	baseFullHouse,
	baseFourOfAKind,
	baseStraightFlush,
}

// Valid reports whether s is one of the 7462 hand classes.
func (s Strength) Valid() bool {
	return s >= MinStrength && s <= MaxStrength
}

// Class returns the hand category.
func (s Strength) Class() Class {
	for c := StraightFlush; c > HighCard; c-- {
		if s >= classBases[c] {
			return c
		}
	}
	return HighCard
}

// Compare returns 1 if s beats other, -1 if other beats s and 0 for a tie.
func (s Strength) Compare(other Strength) int {
	switch {
	case s > other:
		return 1
	case s < other:
		return -1
	default:
		return 0
	}
}

// Classic converts to the traditional 1 (royal flush) .. 7462 (7-high)
// numbering, where lower is stronger.
func (s Strength) Classic() uint16 {
	if !s.Valid() {
		return 0
	}
	return uint16(MaxStrength) + 1 - uint16(s)
}

// FromClassic converts a traditional lower-is-stronger rank back to a Strength.
func FromClassic(rank uint16) (Strength, error) {
	if rank < 1 || rank > uint16(MaxStrength) {
		return 0, fmt.Errorf("%w: classic rank %d", ErrInvalidStrength, rank)
	}
	return Strength(uint16(MaxStrength) + 1 - rank), nil
}

// String describes the hand, e.g. "Two Pair – Sixes over Fives".
func (s Strength) String() string {
	if !s.Valid() {
		return "Invalid"
	}
	info := tables.info[s]
	switch s.Class() {
	case StraightFlush:
		if info.primary == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush – %s High", info.primary.Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind – %s", info.primary.Plural())
	case FullHouse:
		return fmt.Sprintf("Full House – %s over %s", info.primary.Plural(), info.secondary.Plural())
	case Flush:
		return fmt.Sprintf("Flush – %s High", info.primary.Name())
	case Straight:
		return fmt.Sprintf("Straight – %s High", info.primary.Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind – %s", info.primary.Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair – %s over %s", info.primary.Plural(), info.secondary.Plural())
	case Pair:
		return fmt.Sprintf("Pair – %s", info.primary.Plural())
	default:
		return fmt.Sprintf("High Card – %s", info.primary.Name())
	}
}

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}
