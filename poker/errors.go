package poker

import "errors"

var (
	// ErrInvalidCard is returned when a card string cannot be parsed.
	ErrInvalidCard = errors.New("poker: invalid card")
	// ErrDuplicateOrBlankCard is returned when a card set contains a blank or repeated card.
	ErrDuplicateOrBlankCard = errors.New("poker: duplicate or blank card")
	// ErrWrongCardCount is returned when a set does not hold the expected number of cards.
	ErrWrongCardCount = errors.New("poker: wrong number of cards")
	// ErrInvalidBoard is returned for boards that are not preflop, flop, turn or river.
	ErrInvalidBoard = errors.New("poker: invalid board")
	// ErrOverlappingCards is returned when hole cards share cards with each other or the board.
	ErrOverlappingCards = errors.New("poker: overlapping cards")
	// ErrPlayerCount is returned when there are too few or too many players.
	ErrPlayerCount = errors.New("poker: invalid player count")
	// ErrInvalidStrength is returned for strength values outside the 7462 hand classes.
	ErrInvalidStrength = errors.New("poker: invalid hand strength")
)
