// Package store memoizes heads-up preflop matchups in SQL. SQLite is the
// default backend; Postgres is supported for shared deployments.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/lib/pq"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/poker"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	queryTimeout = 3 * time.Second
	openTimeout  = 5 * time.Second
)

// ErrUnknownDriver is returned by Open for drivers other than sqlite and postgres.
var ErrUnknownDriver = errors.New("store: unknown driver")

// ComputeFunc computes the matchup of high against low.
type ComputeFunc func(ctx context.Context, high, low poker.Hole) (equity.Matchup, error)

// Store is a matchup memo table.
type Store struct {
	db     *sql.DB
	driver string
	logger zerolog.Logger
	clock  quartz.Clock
}

// Open connects to the database and makes sure the schema exists. A nil
// clock means the real one.
func Open(ctx context.Context, driver, dsn string, logger zerolog.Logger, clock quartz.Clock) (*Store, error) {
	if clock == nil {
		clock = quartz.NewReal()
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("store: empty %s dsn", driver)
	}

	var db *sql.DB
	var err error
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(dsn)
	case DriverPostgres:
		db, err = openPostgres(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver, logger: logger.With().Str("driver", driver).Logger(), clock: clock}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug().Msg("Matchup store ready")
	return s, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS matchups (
    high   TEXT   NOT NULL,
    low    TEXT   NOT NULL,
    wins   BIGINT NOT NULL,
    losses BIGINT NOT NULL,
    ties   BIGINT NOT NULL,
    PRIMARY KEY (high, low)
)`)
	if err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored matchup of high against low. Callers pass hands in
// canonical order.
func (s *Store) Get(ctx context.Context, high, low poker.Hole) (equity.Matchup, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m equity.Matchup
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT wins, losses, ties FROM matchups WHERE high = ? AND low = ?`),
		high.String(), low.String(),
	).Scan(&m.Wins, &m.Losses, &m.Ties)
	if errors.Is(err, sql.ErrNoRows) {
		return equity.Matchup{}, false, nil
	}
	if err != nil {
		return equity.Matchup{}, false, fmt.Errorf("store: get %s vs %s: %w", high, low, err)
	}
	return m, true, nil
}

// Put stores the matchup of high against low. A row that already exists is
// left alone, so concurrent writers of the same result do not fail.
func (s *Store) Put(ctx context.Context, high, low poker.Hole, m equity.Matchup) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO matchups (high, low, wins, losses, ties) VALUES (?, ?, ?, ?, ?)`),
		high.String(), low.String(), int64(m.Wins), int64(m.Losses), int64(m.Ties),
	)
	if isUniqueViolation(err) {
		s.logger.Debug().Str("high", high.String()).Str("low", low.String()).Msg("Matchup already stored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: put %s vs %s: %w", high, low, err)
	}
	return nil
}

// Matchup returns a against b, computing and storing it on a miss. The
// result is always from a's point of view; cached reports a hit.
func (s *Store) Matchup(ctx context.Context, a, b poker.Hole, compute ComputeFunc) (m equity.Matchup, cached bool, err error) {
	high, low, swapped := equity.Canonical(a, b)
	defer func() {
		if err == nil && swapped {
			m = m.Swap()
		}
	}()

	m, ok, err := s.Get(ctx, high, low)
	if err != nil {
		return equity.Matchup{}, false, err
	}
	if ok {
		return m, true, nil
	}

	start := s.clock.Now()
	m, err = compute(ctx, high, low)
	if err != nil {
		return equity.Matchup{}, false, err
	}
	if err := s.Put(ctx, high, low, m); err != nil {
		return equity.Matchup{}, false, err
	}
	s.logger.Info().
		Str("high", high.String()).
		Str("low", low.String()).
		Uint64("boards", m.Total()).
		Dur("elapsed", s.clock.Since(start)).
		Msg("Matchup computed and stored")
	return m, false, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
