// Package store owns the local asset database: a durable SQLite file with
// versioned schema migrations and the write-stamp rules every mutation must
// go through.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crucial707/hci-assetdb/internal/models"
	_ "modernc.org/sqlite"
)

const dbFileName = "assetdb.sqlite"

// Clock supplies the current time for write stamps. Tests substitute a fixed
// or stepping clock.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Store wraps the local database handle and the clock used for stamping.
type Store struct {
	DB    *sql.DB
	clock Clock
}

// Open opens (creating if needed) the local database under dataDir and
// applies any pending schema migrations. Open failures are storage errors,
// distinct from empty query results; no automatic repair is attempted.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return openDSN(filepath.Join(dataDir, dbFileName))
}

// OpenMemory opens a fresh in-memory database with the full schema applied.
func OpenMemory() (*Store, error) {
	return openDSN(":memory:")
}

func openDSN(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; concurrent writers from other processes are
	// last-write-wins, which this system accepts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure database: %w", err)
		}
	}

	s := &Store{DB: db, clock: SystemClock{}}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetClock replaces the stamp clock. Intended for tests.
func (s *Store) SetClock(c Clock) { s.clock = c }

// Clock returns the stamp clock.
func (s *Store) Clock() Clock { return s.clock }

// Close closes the underlying database.
func (s *Store) Close() error { return s.DB.Close() }

// WriteStamp carries the store-assigned fields for one write. Callers cannot
// supply their own values for these; repositories apply a stamp on every
// insert and update.
type WriteStamp struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	SyncStatus models.SyncStatus
}

// StampCreate returns the stamp for a new record: createdAt == updatedAt,
// syncStatus pending.
func (s *Store) StampCreate() WriteStamp {
	now := s.clock.Now().UTC()
	return WriteStamp{CreatedAt: now, UpdatedAt: now, SyncStatus: models.SyncPending}
}

// StampUpdate returns the stamp for a mutation of an existing record:
// updatedAt refreshed, syncStatus forced back to pending.
func (s *Store) StampUpdate() WriteStamp {
	return WriteStamp{UpdatedAt: s.clock.Now().UTC(), SyncStatus: models.SyncPending}
}
