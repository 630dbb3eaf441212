package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/store"
)

const assetColumns = `id, name, asset_tag, category, status, condition, assigned_to, location,
	brand, model, serial_number, notes, description, purchase_date, purchase_price,
	warranty_expiry, created_at, updated_at, sync_status`

type AssetRepo struct {
	db DBTX
}

func NewAssetRepo(db DBTX) *AssetRepo {
	return &AssetRepo{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *AssetRepo) WithTx(tx *sql.Tx) *AssetRepo {
	return &AssetRepo{db: tx}
}

// Create inserts a new asset. The ID and the stamped fields are
// store-assigned; whatever the caller put in those fields is ignored.
func (r *AssetRepo) Create(ctx context.Context, a models.Asset, stamp store.WriteStamp) (models.Asset, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (name, asset_tag, category, status, condition, assigned_to, location,
			brand, model, serial_number, notes, description, purchase_date, purchase_price,
			warranty_expiry, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.AssetTag, a.Category, a.Status, a.Condition, a.AssignedTo, a.Location,
		a.Brand, a.Model, a.SerialNumber, a.Notes, a.Description,
		fmtTimePtr(a.PurchaseDate), a.PurchasePrice, fmtTimePtr(a.WarrantyExpiry),
		fmtTime(stamp.CreatedAt), fmtTime(stamp.UpdatedAt), stamp.SyncStatus,
	)
	if err != nil {
		return models.Asset{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Asset{}, err
	}
	a.ID = int(id)
	a.CreatedAt = stamp.CreatedAt
	a.UpdatedAt = stamp.UpdatedAt
	a.SyncStatus = stamp.SyncStatus
	return a, nil
}

func (r *AssetRepo) Get(ctx context.Context, id int) (models.Asset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return models.Asset{}, fmt.Errorf("asset %d: %w", id, ErrNotFound)
	}
	return a, err
}

// Update writes the full row for a.ID, applying the stamp. created_at is
// never touched after insertion.
func (r *AssetRepo) Update(ctx context.Context, a models.Asset, stamp store.WriteStamp) (models.Asset, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assets SET name = ?, asset_tag = ?, category = ?, status = ?, condition = ?,
			assigned_to = ?, location = ?, brand = ?, model = ?, serial_number = ?, notes = ?,
			description = ?, purchase_date = ?, purchase_price = ?, warranty_expiry = ?,
			updated_at = ?, sync_status = ?
		 WHERE id = ?`,
		a.Name, a.AssetTag, a.Category, a.Status, a.Condition, a.AssignedTo, a.Location,
		a.Brand, a.Model, a.SerialNumber, a.Notes, a.Description,
		fmtTimePtr(a.PurchaseDate), a.PurchasePrice, fmtTimePtr(a.WarrantyExpiry),
		fmtTime(stamp.UpdatedAt), stamp.SyncStatus, a.ID,
	)
	if err != nil {
		return models.Asset{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Asset{}, err
	}
	if n == 0 {
		return models.Asset{}, fmt.Errorf("asset %d: %w", a.ID, ErrNotFound)
	}
	a.UpdatedAt = stamp.UpdatedAt
	a.SyncStatus = stamp.SyncStatus
	return a, nil
}

func (r *AssetRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("asset %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *AssetRepo) List(ctx context.Context) ([]models.Asset, error) {
	return r.queryAssets(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY id`)
}

func (r *AssetRepo) ByStatus(ctx context.Context, status models.AssetStatus) ([]models.Asset, error) {
	return r.queryAssets(ctx, `SELECT `+assetColumns+` FROM assets WHERE status = ? ORDER BY id`, status)
}

func (r *AssetRepo) ByCategory(ctx context.Context, category string) ([]models.Asset, error) {
	return r.queryAssets(ctx, `SELECT `+assetColumns+` FROM assets WHERE category = ? ORDER BY id`, category)
}

// Search is a case-insensitive substring scan across the searchable text
// columns. A linear scan is fine at the data volumes this store targets.
func (r *AssetRepo) Search(ctx context.Context, query string) ([]models.Asset, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	args := make([]any, 7)
	for i := range args {
		args[i] = pattern
	}
	return r.queryAssets(ctx,
		`SELECT `+assetColumns+` FROM assets
		 WHERE lower(name) LIKE ? OR lower(asset_tag) LIKE ? OR lower(category) LIKE ?
			OR lower(brand) LIKE ? OR lower(model) LIKE ? OR lower(serial_number) LIKE ?
			OR lower(description) LIKE ?
		 ORDER BY id`, args...)
}

func (r *AssetRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n)
	return n, err
}

func (r *AssetRepo) CountByStatus(ctx context.Context) (map[models.AssetStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.AssetStatus]int)
	for rows.Next() {
		var status models.AssetStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *AssetRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM assets GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// PendingSync returns rows whose local copy has not been acknowledged by the
// server yet.
func (r *AssetRepo) PendingSync(ctx context.Context) ([]models.Asset, error) {
	return r.queryAssets(ctx, `SELECT `+assetColumns+` FROM assets WHERE sync_status = ? ORDER BY id`, models.SyncPending)
}

func (r *AssetRepo) CountSyncStatus(ctx context.Context, status models.SyncStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets WHERE sync_status = ?`, status).Scan(&n)
	return n, err
}

func (r *AssetRepo) SetSyncStatus(ctx context.Context, id int, status models.SyncStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE assets SET sync_status = ? WHERE id = ?`, status, id)
	return err
}

// Restore upserts a snapshot row verbatim, keeping its ID, timestamps and
// sync status. Import is the only caller.
func (r *AssetRepo) Restore(ctx context.Context, a models.Asset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assets (id, name, asset_tag, category, status, condition,
			assigned_to, location, brand, model, serial_number, notes, description,
			purchase_date, purchase_price, warranty_expiry, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.AssetTag, a.Category, a.Status, a.Condition, a.AssignedTo, a.Location,
		a.Brand, a.Model, a.SerialNumber, a.Notes, a.Description,
		fmtTimePtr(a.PurchaseDate), a.PurchasePrice, fmtTimePtr(a.WarrantyExpiry),
		fmtTime(a.CreatedAt), fmtTime(a.UpdatedAt), a.SyncStatus,
	)
	return err
}

func (r *AssetRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assets`)
	return err
}

func (r *AssetRepo) queryAssets(ctx context.Context, query string, args ...any) ([]models.Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (models.Asset, error) {
	var a models.Asset
	var purchaseDate, warrantyExpiry, updatedAt sql.NullString
	var purchasePrice sql.NullFloat64
	var createdAt string
	if err := row.Scan(
		&a.ID, &a.Name, &a.AssetTag, &a.Category, &a.Status, &a.Condition, &a.AssignedTo,
		&a.Location, &a.Brand, &a.Model, &a.SerialNumber, &a.Notes, &a.Description,
		&purchaseDate, &purchasePrice, &warrantyExpiry, &createdAt, &updatedAt, &a.SyncStatus,
	); err != nil {
		return models.Asset{}, err
	}
	a.PurchaseDate = scanTimePtr(purchaseDate)
	a.PurchasePrice = scanFloatPtr(purchasePrice)
	a.WarrantyExpiry = scanTimePtr(warrantyExpiry)
	a.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		a.UpdatedAt = parseTime(updatedAt.String)
	}
	return a, nil
}
