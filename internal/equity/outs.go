package equity

import (
	"context"
	"fmt"

	"github.com/lox/holdem-equity/poker"
)

// Outs records, per player, the next cards that give that player a best
// hand, ties included.
type Outs struct {
	Players []poker.Hole
	Board   poker.Board
	Wins    Wins
	Skipped uint64
	cards   []poker.CardSet
}

// For returns player i's outs.
func (o Outs) For(i int) poker.CardSet {
	if i < 0 || i >= len(o.cards) {
		return 0
	}
	return o.cards[i]
}

// Count returns the number of outs of player i.
func (o Outs) Count(i int) int {
	return o.For(i).Count()
}

// Leader returns the player with the most outs. Equal counts go to the
// lowest player index, so a shared lead is not reported.
func (o Outs) Leader() int {
	leader := 0
	for i := range o.cards {
		if o.Count(i) > o.Count(leader) {
			leader = i
		}
	}
	return leader
}

// Outs deals every possible next card on a flop or turn board and records
// it for each player holding a best hand afterwards.
func (e *Engine) Outs(ctx context.Context, players []poker.Hole, board poker.Board) (Outs, error) {
	if st := board.Stage(); st != poker.Flop && st != poker.Turn {
		return Outs{}, fmt.Errorf("%w: board is at the %s", ErrNotOneCardAway, st)
	}
	d, err := newDeal(players, board)
	if err != nil {
		return Outs{}, err
	}

	out := Outs{
		Players: append([]poker.Hole(nil), players...),
		Board:   board,
		cards:   make([]poker.CardSet, len(players)),
	}
	for _, card := range d.remaining.Cards() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		next := poker.CardSet(0).Add(card)
		flag, err := d.outcome(e.rank, next)
		if err != nil {
			out.Skipped++
			e.logger.Warn("Skipping out", "card", card.String(), "err", err)
			continue
		}
		out.Wins.Add(flag)
		for _, p := range flag.Players() {
			out.cards[p] = out.cards[p].Add(card)
		}
	}
	return out, nil
}
