package equity

import (
	"math/bits"
	"strconv"
	"strings"
)

// PlayerFlag is the outcome of one case: bit i is set when player i holds
// one of the best hands. More than one bit means a tie.
type PlayerFlag uint64

// FlagOf returns the flag with only player i set.
func FlagOf(i int) PlayerFlag {
	return 1 << uint(i)
}

// With returns the flag with player i added.
func (f PlayerFlag) With(i int) PlayerFlag {
	return f | FlagOf(i)
}

// Has reports whether player i is set.
func (f PlayerFlag) Has(i int) bool {
	return f&FlagOf(i) != 0
}

// Count returns the number of players set.
func (f PlayerFlag) Count() int {
	return bits.OnesCount64(uint64(f))
}

// IsTie reports whether more than one player shares the best hand.
func (f PlayerFlag) IsTie() bool {
	return f.Count() > 1
}

// Players returns the indexes of the players set, ascending.
func (f PlayerFlag) Players() []int {
	out := make([]int, 0, f.Count())
	for rest := uint64(f); rest != 0; rest &= rest - 1 {
		out = append(out, bits.TrailingZeros64(rest))
	}
	return out
}

// String lists the players numbered from 1, e.g. "P1+P3".
func (f PlayerFlag) String() string {
	if f == 0 {
		return "none"
	}
	players := f.Players()
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = "P" + strconv.Itoa(p+1)
	}
	return strings.Join(parts, "+")
}
