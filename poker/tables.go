package poker

import (
	"fmt"
	"math/bits"

	chd "github.com/opencoff/go-chd"
)

// handInfo keeps the ranks needed to describe a strength class.
type handInfo struct {
	primary   Rank
	secondary Rank
}

// lookupTables are built once at init and read-only afterwards.
type lookupTables struct {
	flush  [1 << NumRanks]Strength
	unique [1 << NumRanks]Strength
	paired pairedTable
	info   [MaxStrength + 1]handInfo
}

// pairedTable maps the prime product of a hand with a repeated rank to its
// strength through a minimal perfect hash.
type pairedTable struct {
	index    *chd.Chd
	products []uint32
	values   []Strength
}

func (p *pairedTable) lookup(product uint32) Strength {
	i := p.index.Find(uint64(product))
	if i >= uint64(len(p.products)) || p.products[i] != product {
		return 0
	}
	return p.values[i]
}

var tables = buildTables()

func buildTables() *lookupTables {
	t := &lookupTables{}

	for mask := uint16(0); mask < 1<<NumRanks; mask++ {
		if bits.OnesCount16(mask) != 5 {
			continue
		}
		high := highest(mask)
		if s := straightHigh(mask); s > 0 {
			high = s
		}

		flush := evaluateMasks([NumSuits]uint16{mask})
		t.flush[mask] = flush
		t.info[flush] = handInfo{primary: high}

		low := mask & -mask
		offsuit := evaluateMasks([NumSuits]uint16{mask &^ low, low})
		t.unique[mask] = offsuit
		t.info[offsuit] = handInfo{primary: high}
	}

	var products []uint32
	var values []Strength
	var counts [NumRanks]int
	var walk func(rank, left int)
	walk = func(rank, left int) {
		if rank < 0 {
			if left != 0 {
				return
			}
			product, suits, info, paired := pairedPattern(counts)
			if !paired {
				return
			}
			s := evaluateMasks(suits)
			products = append(products, product)
			values = append(values, s)
			t.info[s] = info
			return
		}
		for n := 0; n <= 4 && n <= left; n++ {
			counts[rank] = n
			walk(rank-1, left-n)
		}
		counts[rank] = 0
	}
	walk(NumRanks-1, 5)

	t.paired = newPairedTable(products, values)
	return t
}

// pairedPattern turns rank counts into a prime product, suit masks with no
// flush, and the describing ranks. paired is false when no rank repeats.
func pairedPattern(counts [NumRanks]int) (product uint32, suits [NumSuits]uint16, info handInfo, paired bool) {
	product = 1
	best, second := -1, -1
	for r := NumRanks - 1; r >= 0; r-- {
		n := counts[r]
		for i := 0; i < n; i++ {
			product *= rankPrimes[r]
			suits[i] |= 1 << r
		}
		if n >= 2 {
			paired = true
		}
		switch {
		case n < 2:
		case best < 0 || n > counts[best]:
			second = best
			best = r
		case second < 0 || n > counts[second]:
			second = r
		}
	}
	if best >= 0 {
		info.primary = Rank(best)
	}
	if second >= 0 {
		info.secondary = Rank(second)
	}
	return product, suits, info, paired
}

func newPairedTable(products []uint32, values []Strength) pairedTable {
	b, err := chd.New()
	if err != nil {
		panic(fmt.Sprintf("poker: perfect hash builder: %v", err))
	}
	for _, p := range products {
		if err := b.Add(uint64(p)); err != nil {
			panic(fmt.Sprintf("poker: perfect hash add %d: %v", p, err))
		}
	}
	index, err := b.Freeze(0.9)
	if err != nil {
		panic(fmt.Sprintf("poker: perfect hash freeze: %v", err))
	}

	var size uint64
	for _, p := range products {
		if i := index.Find(uint64(p)); i+1 > size {
			size = i + 1
		}
	}
	table := pairedTable{
		index:    index,
		products: make([]uint32, size),
		values:   make([]Strength, size),
	}
	for i, p := range products {
		slot := index.Find(uint64(p))
		if table.products[slot] != 0 {
			panic(fmt.Sprintf("poker: perfect hash collision for %d and %d", p, table.products[slot]))
		}
		table.products[slot] = p
		table.values[slot] = values[i]
	}
	return table
}
