package equity

import "errors"

var (
	// ErrNotOneCardAway is returned by Outs when the board is not a flop or turn.
	ErrNotOneCardAway = errors.New("equity: outs need a flop or turn board")
	// ErrIncomplete is returned when a result that must be exact skipped cases.
	ErrIncomplete = errors.New("equity: enumeration incomplete")
)
