package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crucial707/hci-assetdb/internal/models"
)

// AuditRepo persists the append-only audit trail. Entries are written once,
// never updated, and pruned by the optimize routine.
type AuditRepo struct {
	db DBTX
}

func NewAuditRepo(db DBTX) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) WithTx(tx *sql.Tx) *AuditRepo {
	return &AuditRepo{db: tx}
}

// Log appends one entry. changes maps field name to its before/after pair.
func (r *AuditRepo) Log(ctx context.Context, e models.AuditLog, at time.Time) (models.AuditLog, error) {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("encode changes: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (entity_type, entity_id, action, changes, user_id, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.EntityType, e.EntityID, e.Action, string(changes), e.UserID, fmtTime(at),
	)
	if err != nil {
		return models.AuditLog{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.AuditLog{}, err
	}
	e.ID = int(id)
	e.Timestamp = at
	return e, nil
}

// List returns entries newest first.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return r.queryEntries(ctx,
		`SELECT id, entity_type, entity_id, action, changes, user_id, timestamp
		 FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
}

// ListAll returns every entry in insertion order. Export is the main caller.
func (r *AuditRepo) ListAll(ctx context.Context) ([]models.AuditLog, error) {
	return r.queryEntries(ctx,
		`SELECT id, entity_type, entity_id, action, changes, user_id, timestamp
		 FROM audit_logs ORDER BY id`)
}

// ByEntity returns entries for one record, newest first.
func (r *AuditRepo) ByEntity(ctx context.Context, entityType string, entityID int) ([]models.AuditLog, error) {
	return r.queryEntries(ctx,
		`SELECT id, entity_type, entity_id, action, changes, user_id, timestamp
		 FROM audit_logs WHERE entity_type = ? AND entity_id = ?
		 ORDER BY timestamp DESC, id DESC`, entityType, entityID)
}

func (r *AuditRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&n)
	return n, err
}

// PruneKeepNewest deletes everything but the keep most recent entries by
// timestamp. Returns the number of rows deleted; repeated runs are no-ops.
func (r *AuditRepo) PruneKeepNewest(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_logs WHERE id NOT IN (
			SELECT id FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Restore reinserts a snapshot entry verbatim. Import is the only caller.
func (r *AuditRepo) Restore(ctx context.Context, e models.AuditLog) error {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO audit_logs (id, entity_type, entity_id, action, changes, user_id, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EntityType, e.EntityID, e.Action, string(changes), e.UserID, fmtTime(e.Timestamp),
	)
	return err
}

func (r *AuditRepo) queryEntries(ctx context.Context, query string, args ...any) ([]models.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		var changes, timestamp string
		var userID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &changes, &userID, &timestamp); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(changes), &e.Changes); err != nil {
			return nil, fmt.Errorf("decode changes for audit entry %d: %w", e.ID, err)
		}
		e.UserID = scanIntPtr(userID)
		e.Timestamp = parseTime(timestamp)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
