package equity

import (
	"maps"
	"slices"
)

// Wins counts cases per exact outcome, so a two-way tie between players 1
// and 2 is counted apart from a three-way tie including them. The zero value
// is empty and ready to use. Merging is associative and commutative, which
// lets workers fold cases independently.
type Wins struct {
	counts map[PlayerFlag]uint64
}

// Add counts one case with outcome flag.
func (w *Wins) Add(flag PlayerFlag) {
	w.AddN(flag, 1)
}

// AddN counts n cases with outcome flag.
func (w *Wins) AddN(flag PlayerFlag, n uint64) {
	if n == 0 {
		return
	}
	if w.counts == nil {
		w.counts = make(map[PlayerFlag]uint64)
	}
	w.counts[flag] += n
}

// Merge adds every count of other.
func (w *Wins) Merge(other Wins) {
	for flag, n := range other.counts {
		w.AddN(flag, n)
	}
}

// Count returns the number of cases with exactly this outcome.
func (w Wins) Count(flag PlayerFlag) uint64 {
	return w.counts[flag]
}

// Total returns the number of counted cases.
func (w Wins) Total() uint64 {
	var total uint64
	for _, n := range w.counts {
		total += n
	}
	return total
}

// Flags returns the observed outcomes in ascending order.
func (w Wins) Flags() []PlayerFlag {
	return slices.Sorted(maps.Keys(w.counts))
}

// Equal reports whether both hold the same counts.
func (w Wins) Equal(other Wins) bool {
	return maps.Equal(w.counts, other.counts)
}
