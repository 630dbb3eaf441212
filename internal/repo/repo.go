// Package repo contains one repository per collection. Repositories are the
// only code that touches SQL; the service layer composes them, passing a
// write stamp on every mutation so the pending-sync contract is visible at
// each call site.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBTX is the querying surface shared by *sql.DB and *sql.Tx. Repositories
// are constructed against the database and rebound to a transaction with
// WithTx for multi-table operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrNotFound is returned when an operation addresses a nonexistent
// identifier. It is distinct from storage errors.
var ErrNotFound = errors.New("not found")

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// fmtTimePtr renders an optional time for storage; nil stays NULL.
func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func scanTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func scanFloatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func scanIntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
