package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Migration is one schema version: DDL plus an optional per-record
// transform. Apply runs inside a single transaction; either the whole
// version commits or none of it does. Per-record transforms must be
// idempotent and must skip malformed rows rather than abort.
type Migration struct {
	Version     int
	Description string
	Apply       func(tx *sql.Tx) error
}

// migrations are applied in order on open. Versions are monotonically
// increasing and never reordered or edited once shipped.
var migrations = []Migration{
	{Version: 1, Description: "initial collections", Apply: migrateV1},
	{Version: 2, Description: "add updated_at, backfill from created_at", Apply: migrateV2},
	{Version: 3, Description: "lookup indexes for filters and compound search", Apply: migrateV3},
}

// Migrate brings the schema up to the latest version. Already-applied
// versions are skipped; a fresh database gets all of them.
func (s *Store) Migrate() error {
	if _, err := s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL,
			description TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("init schema_migrations: %w", err)
	}

	var current int
	if err := s.DB.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := s.DB.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.Version, err)
		}
		if err := m.Apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)`,
			m.Version, s.clock.Now().UTC().Format(time.RFC3339Nano), m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.Version, err)
		}
		slog.Info("schema migrated", "version", m.Version, "description", m.Description)
	}
	return nil
}

func migrateV1(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			asset_tag TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'AVAILABLE',
			condition TEXT NOT NULL DEFAULT 'GOOD',
			assigned_to TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			serial_number TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			purchase_date TEXT,
			purchase_price REAL,
			warranty_expiry TEXT,
			created_at TEXT NOT NULL,
			sync_status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			job_title TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'USER',
			active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			sync_status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS maintenance_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_id INTEGER NOT NULL,
			maintenance_date TEXT NOT NULL,
			maintenance_type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'SCHEDULED',
			priority TEXT NOT NULL DEFAULT 'MEDIUM',
			performed_by TEXT NOT NULL DEFAULT '',
			cost REAL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			sync_status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			sync_status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_type TEXT NOT NULL,
			entity_id INTEGER NOT NULL,
			action TEXT NOT NULL,
			changes TEXT NOT NULL DEFAULT '{}',
			user_id INTEGER,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_status ON assets (status)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_category ON assets (category)`,
		`CREATE INDEX IF NOT EXISTS idx_maintenance_asset ON maintenance_records (asset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_maintenance_status ON maintenance_records (status)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs (timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrateV2 adds updated_at to the four mutable collections and backfills it
// from created_at row by row. Rows whose created_at does not parse are
// logged and skipped; they keep a NULL updated_at rather than failing the
// whole migration.
func migrateV2(tx *sql.Tx) error {
	tables := []string{"assets", "users", "maintenance_records", "categories"}
	for _, table := range tables {
		if _, err := tx.Exec(`ALTER TABLE ` + table + ` ADD COLUMN updated_at TEXT`); err != nil {
			return err
		}
		if err := backfillUpdatedAt(tx, table); err != nil {
			return err
		}
	}
	return nil
}

func backfillUpdatedAt(tx *sql.Tx, table string) error {
	rows, err := tx.Query(`SELECT id, created_at FROM ` + table + ` WHERE updated_at IS NULL`)
	if err != nil {
		return err
	}
	type rowFix struct {
		id        int
		createdAt string
	}
	var fixes []rowFix
	skipped := 0
	for rows.Next() {
		var id int
		var createdAt sql.NullString
		if err := rows.Scan(&id, &createdAt); err != nil {
			rows.Close()
			return err
		}
		if !createdAt.Valid || !parseable(createdAt.String) {
			skipped++
			slog.Warn("backfill skipped malformed row", "table", table, "id", id)
			continue
		}
		fixes = append(fixes, rowFix{id: id, createdAt: createdAt.String})
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, f := range fixes {
		if _, err := tx.Exec(`UPDATE `+table+` SET updated_at = ? WHERE id = ?`, f.createdAt, f.id); err != nil {
			return err
		}
	}
	if skipped > 0 {
		slog.Warn("backfill finished with skips", "table", table, "fixed", len(fixes), "skipped", skipped)
	}
	return nil
}

func migrateV3(tx *sql.Tx) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_assets_name_tag ON assets (name, asset_tag)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_category_status ON assets (category, status)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_assigned_to ON assets (assigned_to)`,
		`CREATE INDEX IF NOT EXISTS idx_maintenance_date ON maintenance_records (maintenance_date)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func parseable(ts string) bool {
	_, err := time.Parse(time.RFC3339Nano, ts)
	return err == nil
}
