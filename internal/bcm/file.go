package bcm

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/coder/quartz"
	"github.com/lox/holdem-equity/internal/fileutil"
	"github.com/lox/holdem-equity/poker"
	"github.com/rs/zerolog"
)

var fileHeader = []string{"key7", "best5", "strength"}

// WriteFile generates the cache for cfg.Deck and streams it to path as CSV
// without holding the table in memory. The file appears atomically once
// generation has finished.
func WriteFile(ctx context.Context, cfg BuildConfig, path string, logger zerolog.Logger) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return writeCSV(ctx, cfg, w, logger)
	})
}

func writeCSV(ctx context.Context, cfg BuildConfig, w io.Writer, logger zerolog.Logger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fileHeader); err != nil {
		return err
	}
	record := make([]string, 3)
	err := Generate(ctx, cfg, logger, func(rows []Row) error {
		for _, r := range rows {
			record[0] = strconv.FormatUint(uint64(r.Key), 10)
			record[1] = strconv.FormatUint(uint64(r.Best), 10)
			record[2] = strconv.FormatUint(uint64(r.Strength), 10)
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a cache file written by WriteFile into a Ready cache. A nil
// clock means the real one.
func Load(path string, logger zerolog.Logger, clock quartz.Clock) (*Cache, error) {
	if clock == nil {
		clock = quartz.NewReal()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bcm: open cache: %w", err)
	}
	defer f.Close()

	start := clock.Now()
	logger.Info().Str("path", path).Msg("Loading seven-card cache")
	c, err := Read(bufio.NewReaderSize(f, 1<<20), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info().Str("path", path).Int("entries", c.Len()).Dur("elapsed", clock.Since(start)).Msg("Seven-card cache loaded")
	return c, nil
}

// Read parses cache rows from r into a Ready cache. Every row is checked:
// the key must hold seven cards, the best hand five of them, and the
// strength must be valid. The rows must cover every seven-card combination
// of the cards they use, so a truncated file never becomes Ready.
func Read(r io.Reader, logger zerolog.Logger) (*Cache, error) {
	c := New(logger)
	if err := c.begin(); err != nil {
		return nil, err
	}
	entries, deck, err := readEntries(r)
	if err := c.finish(entries, deck, err); err != nil {
		return nil, err
	}
	return c, nil
}

func readEntries(r io.Reader) (map[poker.CardSet]Entry, poker.CardSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(fileHeader)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: header: %w", ErrMalformedFile, err)
	}
	for i, name := range fileHeader {
		if header[i] != name {
			return nil, 0, fmt.Errorf("%w: header %q, want %q", ErrMalformedFile, header, fileHeader)
		}
	}

	entries := make(map[poker.CardSet]Entry)
	var deck poker.CardSet
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrMalformedFile, err)
		}
		line, _ := cr.FieldPos(0)

		key, best, strength, err := parseRecord(record)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: %w", ErrMalformedFile, line, err)
		}
		if _, dup := entries[key]; dup {
			return nil, 0, fmt.Errorf("%w: line %d: duplicate key %s", ErrMalformedFile, line, key)
		}
		entries[key] = Entry{Best: best, Strength: strength}
		deck |= key
	}

	if n := deck.Count(); n < 7 || uint64(len(entries)) != poker.Binomial(n, 7) {
		return nil, 0, fmt.Errorf("%w: incomplete: %d of %d entries for %d cards",
			ErrMalformedFile, len(entries), poker.Binomial(n, 7), n)
	}
	return entries, deck, nil
}

func parseRecord(record []string) (poker.CardSet, poker.CardSet, poker.Strength, error) {
	key, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("key: %w", err)
	}
	best, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("best: %w", err)
	}
	strength, err := strconv.ParseUint(record[2], 10, 16)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("strength: %w", err)
	}

	k, b, s := poker.CardSet(key), poker.CardSet(best), poker.Strength(strength)
	if _, err := k.Unpack(7); err != nil {
		return 0, 0, 0, fmt.Errorf("key: %w", err)
	}
	if _, err := b.Unpack(5); err != nil {
		return 0, 0, 0, fmt.Errorf("best: %w", err)
	}
	if b&^k != 0 {
		return 0, 0, 0, fmt.Errorf("best %s is not part of %s", b, k)
	}
	if !s.Valid() {
		return 0, 0, 0, fmt.Errorf("%w: %d", poker.ErrInvalidStrength, strength)
	}
	return k, b, s, nil
}
