package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/store"
)

const userColumns = `id, username, email, first_name, last_name, department, job_title, phone,
	role, active, created_at, updated_at, sync_status`

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) WithTx(tx *sql.Tx) *UserRepo {
	return &UserRepo{db: tx}
}

func (r *UserRepo) Create(ctx context.Context, u models.User, stamp store.WriteStamp) (models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, department, job_title, phone,
			role, active, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Department, u.JobTitle, u.Phone,
		u.Role, u.Active, fmtTime(stamp.CreatedAt), fmtTime(stamp.UpdatedAt), stamp.SyncStatus,
	)
	if err != nil {
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	u.ID = int(id)
	u.CreatedAt = stamp.CreatedAt
	u.UpdatedAt = stamp.UpdatedAt
	u.SyncStatus = stamp.SyncStatus
	return u, nil
}

func (r *UserRepo) Get(ctx context.Context, id int) (models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, err
}

func (r *UserRepo) Update(ctx context.Context, u models.User, stamp store.WriteStamp) (models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, department = ?,
			job_title = ?, phone = ?, role = ?, active = ?, updated_at = ?, sync_status = ?
		 WHERE id = ?`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Department, u.JobTitle, u.Phone,
		u.Role, u.Active, fmtTime(stamp.UpdatedAt), stamp.SyncStatus, u.ID,
	)
	if err != nil {
		return models.User{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if n == 0 {
		return models.User{}, fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	u.UpdatedAt = stamp.UpdatedAt
	u.SyncStatus = stamp.SyncStatus
	return u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepo) PendingSync(ctx context.Context) ([]models.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE sync_status = ? ORDER BY id`, models.SyncPending)
}

func (r *UserRepo) CountSyncStatus(ctx context.Context, status models.SyncStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE sync_status = ?`, status).Scan(&n)
	return n, err
}

func (r *UserRepo) SetSyncStatus(ctx context.Context, id int, status models.SyncStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET sync_status = ? WHERE id = ?`, status, id)
	return err
}

func (r *UserRepo) Restore(ctx context.Context, u models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (id, username, email, first_name, last_name, department,
			job_title, phone, role, active, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Department, u.JobTitle, u.Phone,
		u.Role, u.Active, fmtTime(u.CreatedAt), fmtTime(u.UpdatedAt), u.SyncStatus,
	)
	return err
}

func (r *UserRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}

func (r *UserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var createdAt string
	var updatedAt sql.NullString
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Department, &u.JobTitle,
		&u.Phone, &u.Role, &u.Active, &createdAt, &updatedAt, &u.SyncStatus,
	); err != nil {
		return models.User{}, err
	}
	u.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		u.UpdatedAt = parseTime(updatedAt.String)
	}
	return u, nil
}
