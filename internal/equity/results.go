package equity

// PlayerResult holds one player's counters over an enumeration.
type PlayerResult struct {
	Player int
	// Hits counts cases where the player held a best hand, ties included.
	Hits uint64
	// Ties counts the hits shared with another player.
	Ties uint64
	// Total is the number of ranked cases.
	Total uint64

	share float64
}

// Wins returns the cases won outright.
func (r PlayerResult) Wins() uint64 {
	return r.Hits - r.Ties
}

// HitPercent is Hits as a percentage of Total.
func (r PlayerResult) HitPercent() float64 {
	return percent(float64(r.Hits), r.Total)
}

// TiePercent is Ties as a percentage of Total.
func (r PlayerResult) TiePercent() float64 {
	return percent(float64(r.Ties), r.Total)
}

// WinPercent is outright wins as a percentage of Total.
func (r PlayerResult) WinPercent() float64 {
	return percent(float64(r.Wins()), r.Total)
}

// Equity is the player's share of the pot in percent, with tied cases split
// evenly between the players sharing them.
func (r PlayerResult) Equity() float64 {
	return percent(r.share, r.Total)
}

func percent(n float64, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return n / float64(total) * 100
}

// Results derives per-player counters from wins.
type Results struct {
	Total   uint64
	Players []PlayerResult
}

// NewResults folds wins into counters for the first players players. Bits
// beyond that are ignored.
func NewResults(wins Wins, players int) Results {
	r := Results{
		Total:   wins.Total(),
		Players: make([]PlayerResult, players),
	}
	for i := range r.Players {
		r.Players[i] = PlayerResult{Player: i, Total: r.Total}
	}
	for _, flag := range wins.Flags() {
		if flag == 0 {
			continue
		}
		n := wins.Count(flag)
		split := float64(n) / float64(flag.Count())
		for _, p := range flag.Players() {
			if p >= players {
				continue
			}
			pr := &r.Players[p]
			pr.Hits += n
			pr.share += split
			if flag.IsTie() {
				pr.Ties += n
			}
		}
	}
	return r
}
