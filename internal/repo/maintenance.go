package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/store"
)

const maintenanceColumns = `id, asset_id, maintenance_date, maintenance_type, description, status,
	priority, performed_by, cost, notes, created_at, updated_at, sync_status`

type MaintenanceRepo struct {
	db DBTX
}

func NewMaintenanceRepo(db DBTX) *MaintenanceRepo {
	return &MaintenanceRepo{db: db}
}

func (r *MaintenanceRepo) WithTx(tx *sql.Tx) *MaintenanceRepo {
	return &MaintenanceRepo{db: tx}
}

func (r *MaintenanceRepo) Create(ctx context.Context, m models.MaintenanceRecord, stamp store.WriteStamp) (models.MaintenanceRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_records (asset_id, maintenance_date, maintenance_type, description,
			status, priority, performed_by, cost, notes, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.AssetID, fmtTime(m.MaintenanceDate), m.MaintenanceType, m.Description,
		m.Status, m.Priority, m.PerformedBy, m.Cost, m.Notes,
		fmtTime(stamp.CreatedAt), fmtTime(stamp.UpdatedAt), stamp.SyncStatus,
	)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	m.ID = int(id)
	m.CreatedAt = stamp.CreatedAt
	m.UpdatedAt = stamp.UpdatedAt
	m.SyncStatus = stamp.SyncStatus
	return m, nil
}

func (r *MaintenanceRepo) Get(ctx context.Context, id int) (models.MaintenanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = ?`, id)
	m, err := scanMaintenance(row)
	if err == sql.ErrNoRows {
		return models.MaintenanceRecord{}, fmt.Errorf("maintenance record %d: %w", id, ErrNotFound)
	}
	return m, err
}

func (r *MaintenanceRepo) Update(ctx context.Context, m models.MaintenanceRecord, stamp store.WriteStamp) (models.MaintenanceRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_records SET maintenance_date = ?, maintenance_type = ?, description = ?,
			status = ?, priority = ?, performed_by = ?, cost = ?, notes = ?, updated_at = ?, sync_status = ?
		 WHERE id = ?`,
		fmtTime(m.MaintenanceDate), m.MaintenanceType, m.Description, m.Status, m.Priority,
		m.PerformedBy, m.Cost, m.Notes, fmtTime(stamp.UpdatedAt), stamp.SyncStatus, m.ID,
	)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	if n == 0 {
		return models.MaintenanceRecord{}, fmt.Errorf("maintenance record %d: %w", m.ID, ErrNotFound)
	}
	m.UpdatedAt = stamp.UpdatedAt
	m.SyncStatus = stamp.SyncStatus
	return m, nil
}

func (r *MaintenanceRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("maintenance record %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MaintenanceRepo) List(ctx context.Context) ([]models.MaintenanceRecord, error) {
	return r.queryRecords(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_records ORDER BY id`)
}

func (r *MaintenanceRepo) ByAsset(ctx context.Context, assetID int) ([]models.MaintenanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE asset_id = ? ORDER BY id`, assetID)
}

// DeleteByAsset removes every record referencing assetID. Used by the
// cascading asset delete; runs inside the caller's transaction.
func (r *MaintenanceRepo) DeleteByAsset(ctx context.Context, assetID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE asset_id = ?`, assetID)
	return err
}

// Upcoming returns SCHEDULED records due on or before the cutoff, soonest
// first.
func (r *MaintenanceRepo) Upcoming(ctx context.Context, cutoff time.Time) ([]models.MaintenanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records
		 WHERE status = ? AND maintenance_date <= ?
		 ORDER BY maintenance_date ASC`,
		models.MaintenanceScheduled, fmtTime(cutoff))
}

// DeleteCompletedBefore removes COMPLETED records older than the cutoff.
// Returns the number of rows deleted.
func (r *MaintenanceRepo) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM maintenance_records WHERE status = ? AND maintenance_date < ?`,
		models.MaintenanceCompleted, fmtTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MaintenanceRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM maintenance_records`).Scan(&n)
	return n, err
}

func (r *MaintenanceRepo) PendingSync(ctx context.Context) ([]models.MaintenanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE sync_status = ? ORDER BY id`,
		models.SyncPending)
}

func (r *MaintenanceRepo) CountSyncStatus(ctx context.Context, status models.SyncStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM maintenance_records WHERE sync_status = ?`, status).Scan(&n)
	return n, err
}

func (r *MaintenanceRepo) SetSyncStatus(ctx context.Context, id int, status models.SyncStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE maintenance_records SET sync_status = ? WHERE id = ?`, status, id)
	return err
}

func (r *MaintenanceRepo) Restore(ctx context.Context, m models.MaintenanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO maintenance_records (id, asset_id, maintenance_date, maintenance_type,
			description, status, priority, performed_by, cost, notes, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.AssetID, fmtTime(m.MaintenanceDate), m.MaintenanceType, m.Description,
		m.Status, m.Priority, m.PerformedBy, m.Cost, m.Notes,
		fmtTime(m.CreatedAt), fmtTime(m.UpdatedAt), m.SyncStatus,
	)
	return err
}

func (r *MaintenanceRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records`)
	return err
}

func (r *MaintenanceRepo) queryRecords(ctx context.Context, query string, args ...any) ([]models.MaintenanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MaintenanceRecord
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

func scanMaintenance(row rowScanner) (models.MaintenanceRecord, error) {
	var m models.MaintenanceRecord
	var maintenanceDate, createdAt string
	var updatedAt sql.NullString
	var cost sql.NullFloat64
	if err := row.Scan(
		&m.ID, &m.AssetID, &maintenanceDate, &m.MaintenanceType, &m.Description, &m.Status,
		&m.Priority, &m.PerformedBy, &cost, &m.Notes, &createdAt, &updatedAt, &m.SyncStatus,
	); err != nil {
		return models.MaintenanceRecord{}, err
	}
	m.MaintenanceDate = parseTime(maintenanceDate)
	m.Cost = scanFloatPtr(cost)
	m.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		m.UpdatedAt = parseTime(updatedAt.String)
	}
	return m, nil
}
