// Package bcm holds the seven-card cache: the best five-card hand and its
// strength for every seven-card combination, built once and then shared
// read-only.
package bcm

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/lox/holdem-equity/poker"
	"github.com/rs/zerolog"
)

var (
	// ErrNotSevenCards is returned when a lookup key does not hold exactly seven cards.
	ErrNotSevenCards = errors.New("bcm: lookup needs exactly 7 cards")
	// ErrNotReady is returned when the cache is used before it has been built or loaded.
	ErrNotReady = errors.New("bcm: cache not ready")
	// ErrMissingEntry is returned for a seven-card key the cache does not hold.
	ErrMissingEntry = errors.New("bcm: missing cache entry")
	// ErrAlreadyBuilt is returned when Build is called on a cache that is not Unbuilt.
	ErrAlreadyBuilt = errors.New("bcm: cache already built")
	// ErrMalformedFile is returned when a cache file cannot be parsed.
	ErrMalformedFile = errors.New("bcm: malformed cache file")
)

// State is the lifecycle of a Cache.
type State int32

const (
	Unbuilt State = iota
	Building
	Ready
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Building:
		return "building"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Entry is the cached result for one seven-card key.
type Entry struct {
	Best     poker.CardSet
	Strength poker.Strength
}

// Cache maps seven-card keys to their best five cards. Only the goroutine
// that builds or loads it writes to the map; once Ready it is immutable and
// safe for concurrent lookups without locking.
type Cache struct {
	state   atomic.Int32
	entries map[poker.CardSet]Entry
	deck    poker.CardSet
	logger  zerolog.Logger
}

// New returns an Unbuilt cache.
func New(logger zerolog.Logger) *Cache {
	return &Cache{logger: logger}
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	return State(c.state.Load())
}

// Len returns the number of entries. It is only meaningful once Ready.
func (c *Cache) Len() int {
	if c.State() != Ready {
		return 0
	}
	return len(c.entries)
}

// Deck returns the cards the cache covers.
func (c *Cache) Deck() poker.CardSet {
	if c.State() != Ready {
		return 0
	}
	return c.deck
}

// Lookup returns the entry for a seven-card set. Sets with any other number
// of cards are rejected rather than padded.
func (c *Cache) Lookup(set poker.CardSet) (Entry, error) {
	if n := set.Count(); n != 7 || set&^poker.FullDeck != 0 {
		return Entry{}, fmt.Errorf("%w: got %d", ErrNotSevenCards, n)
	}
	if s := c.State(); s != Ready {
		return Entry{}, fmt.Errorf("%w: state is %s", ErrNotReady, s)
	}
	e, ok := c.entries[set]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrMissingEntry, set)
	}
	return e, nil
}

// MustLookup is Lookup for callers that treat an incomplete cache as a
// broken invariant. It panics on any lookup error.
func (c *Cache) MustLookup(set poker.CardSet) Entry {
	e, err := c.Lookup(set)
	if err != nil {
		panic(err)
	}
	return e
}

// begin moves an Unbuilt cache to Building.
func (c *Cache) begin() error {
	if !c.state.CompareAndSwap(int32(Unbuilt), int32(Building)) {
		return fmt.Errorf("%w: state is %s", ErrAlreadyBuilt, c.State())
	}
	return nil
}

// finish publishes the entries and marks the cache Ready. On error the cache
// goes back to Unbuilt and the partial entries are dropped.
func (c *Cache) finish(entries map[poker.CardSet]Entry, deck poker.CardSet, err error) error {
	if err != nil {
		c.entries = nil
		c.state.Store(int32(Unbuilt))
		return err
	}
	c.entries = entries
	c.deck = deck
	c.state.Store(int32(Ready))
	return nil
}
