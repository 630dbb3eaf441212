package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/store"
)

const categoryColumns = `id, name, description, active, created_at, updated_at, sync_status`

type CategoryRepo struct {
	db DBTX
}

func NewCategoryRepo(db DBTX) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) WithTx(tx *sql.Tx) *CategoryRepo {
	return &CategoryRepo{db: tx}
}

func (r *CategoryRepo) Create(ctx context.Context, c models.Category, stamp store.WriteStamp) (models.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, active, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.Active, fmtTime(stamp.CreatedAt), fmtTime(stamp.UpdatedAt), stamp.SyncStatus,
	)
	if err != nil {
		return models.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Category{}, err
	}
	c.ID = int(id)
	c.CreatedAt = stamp.CreatedAt
	c.UpdatedAt = stamp.UpdatedAt
	c.SyncStatus = stamp.SyncStatus
	return c, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id int) (models.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return models.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *CategoryRepo) Update(ctx context.Context, c models.Category, stamp store.WriteStamp) (models.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, active = ?, updated_at = ?, sync_status = ?
		 WHERE id = ?`,
		c.Name, c.Description, c.Active, fmtTime(stamp.UpdatedAt), stamp.SyncStatus, c.ID,
	)
	if err != nil {
		return models.Category{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Category{}, err
	}
	if n == 0 {
		return models.Category{}, fmt.Errorf("category %d: %w", c.ID, ErrNotFound)
	}
	c.UpdatedAt = stamp.UpdatedAt
	c.SyncStatus = stamp.SyncStatus
	return c, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return r.queryCategories(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
}

func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

func (r *CategoryRepo) PendingSync(ctx context.Context) ([]models.Category, error) {
	return r.queryCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE sync_status = ? ORDER BY id`, models.SyncPending)
}

func (r *CategoryRepo) CountSyncStatus(ctx context.Context, status models.SyncStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE sync_status = ?`, status).Scan(&n)
	return n, err
}

func (r *CategoryRepo) SetSyncStatus(ctx context.Context, id int, status models.SyncStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE categories SET sync_status = ? WHERE id = ?`, status, id)
	return err
}

func (r *CategoryRepo) Restore(ctx context.Context, c models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (id, name, description, active, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Active, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt), c.SyncStatus,
	)
	return err
}

func (r *CategoryRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories`)
	return err
}

func (r *CategoryRepo) queryCategories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var createdAt string
	var updatedAt sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &createdAt, &updatedAt, &c.SyncStatus); err != nil {
		return models.Category{}, err
	}
	c.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		c.UpdatedAt = parseTime(updatedAt.String)
	}
	return c, nil
}
