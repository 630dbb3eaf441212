// Package service is the sanctioned entry point for every read and write
// against the local store. It owns validation, merge semantics for partial
// updates, and the multi-table transactions (cascading delete, transfer,
// import) whose writes must land together or not at all.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/repo"
	"github.com/crucial707/hci-assetdb/internal/store"
)

type Service struct {
	store       *store.Store
	assets      *repo.AssetRepo
	users       *repo.UserRepo
	maintenance *repo.MaintenanceRepo
	categories  *repo.CategoryRepo
	audit       *repo.AuditRepo
}

func New(st *store.Store) *Service {
	return &Service{
		store:       st,
		assets:      repo.NewAssetRepo(st.DB),
		users:       repo.NewUserRepo(st.DB),
		maintenance: repo.NewMaintenanceRepo(st.DB),
		categories:  repo.NewCategoryRepo(st.DB),
		audit:       repo.NewAuditRepo(st.DB),
	}
}

// ValidationError carries the concrete list of violated rules. The record is
// never written when validation fails.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// ===== Assets =====

// CreateAsset validates and inserts a new asset. The returned asset carries
// the store-assigned ID, createdAt == updatedAt, and syncStatus pending.
func (s *Service) CreateAsset(ctx context.Context, a models.Asset) (models.Asset, error) {
	if a.Status == "" {
		a.Status = models.AssetAvailable
	}
	if a.Condition == "" {
		a.Condition = models.ConditionGood
	}
	if result := ValidateAsset(a); !result.Valid {
		return models.Asset{}, &ValidationError{Errors: result.Errors}
	}
	return s.assets.Create(ctx, a, s.store.StampCreate())
}

func (s *Service) GetAsset(ctx context.Context, id int) (models.Asset, error) {
	return s.assets.Get(ctx, id)
}

// UpdateAsset merges the patch into the stored asset. Unspecified fields
// keep their prior values; updatedAt and syncStatus are always refreshed.
func (s *Service) UpdateAsset(ctx context.Context, id int, patch models.AssetPatch) (models.Asset, error) {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Asset{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	assets := s.assets.WithTx(tx)
	a, err := assets.Get(ctx, id)
	if err != nil {
		return models.Asset{}, err
	}
	patch.Apply(&a)
	if result := ValidateAsset(a); !result.Valid {
		return models.Asset{}, &ValidationError{Errors: result.Errors}
	}
	a, err = assets.Update(ctx, a, s.store.StampUpdate())
	if err != nil {
		return models.Asset{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Asset{}, fmt.Errorf("commit update: %w", err)
	}
	return a, nil
}

// DeleteAsset removes the asset and every maintenance record referencing it
// in one transaction; either both deletions happen or neither does.
func (s *Service) DeleteAsset(ctx context.Context, id int) error {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if err := s.maintenance.WithTx(tx).DeleteByAsset(ctx, id); err != nil {
		return err
	}
	if err := s.assets.WithTx(tx).Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Service) ListAssets(ctx context.Context) ([]models.Asset, error) {
	return s.assets.List(ctx)
}

func (s *Service) AssetsByStatus(ctx context.Context, status models.AssetStatus) ([]models.Asset, error) {
	return s.assets.ByStatus(ctx, status)
}

func (s *Service) AssetsByCategory(ctx context.Context, category string) ([]models.Asset, error) {
	return s.assets.ByCategory(ctx, category)
}

// SearchAssets is the unranked substring search across name, tag, category,
// brand, model, serial number and description.
func (s *Service) SearchAssets(ctx context.Context, query string) ([]models.Asset, error) {
	return s.assets.Search(ctx, query)
}

// ===== Users =====

func (s *Service) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if result := validateUser(u); !result.Valid {
		return models.User{}, &ValidationError{Errors: result.Errors}
	}
	return s.users.Create(ctx, u, s.store.StampCreate())
}

func (s *Service) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, id int, patch models.UserPatch) (models.User, error) {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	users := s.users.WithTx(tx)
	u, err := users.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	patch.Apply(&u)
	if result := validateUser(u); !result.Valid {
		return models.User{}, &ValidationError{Errors: result.Errors}
	}
	u, err = users.Update(ctx, u, s.store.StampUpdate())
	if err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit update: %w", err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return s.users.Delete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// ===== Maintenance records =====

func (s *Service) CreateMaintenanceRecord(ctx context.Context, m models.MaintenanceRecord) (models.MaintenanceRecord, error) {
	if m.Status == "" {
		m.Status = models.MaintenanceScheduled
	}
	if m.Priority == "" {
		m.Priority = models.PriorityMedium
	}
	if result := validateMaintenance(m); !result.Valid {
		return models.MaintenanceRecord{}, &ValidationError{Errors: result.Errors}
	}
	return s.maintenance.Create(ctx, m, s.store.StampCreate())
}

func (s *Service) GetMaintenanceRecord(ctx context.Context, id int) (models.MaintenanceRecord, error) {
	return s.maintenance.Get(ctx, id)
}

func (s *Service) UpdateMaintenanceRecord(ctx context.Context, id int, patch models.MaintenancePatch) (models.MaintenanceRecord, error) {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.MaintenanceRecord{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	records := s.maintenance.WithTx(tx)
	m, err := records.Get(ctx, id)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	patch.Apply(&m)
	if result := validateMaintenance(m); !result.Valid {
		return models.MaintenanceRecord{}, &ValidationError{Errors: result.Errors}
	}
	m, err = records.Update(ctx, m, s.store.StampUpdate())
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.MaintenanceRecord{}, fmt.Errorf("commit update: %w", err)
	}
	return m, nil
}

func (s *Service) DeleteMaintenanceRecord(ctx context.Context, id int) error {
	return s.maintenance.Delete(ctx, id)
}

func (s *Service) ListMaintenanceRecords(ctx context.Context) ([]models.MaintenanceRecord, error) {
	return s.maintenance.List(ctx)
}

func (s *Service) MaintenanceByAsset(ctx context.Context, assetID int) ([]models.MaintenanceRecord, error) {
	return s.maintenance.ByAsset(ctx, assetID)
}

// UpcomingMaintenance returns SCHEDULED records due within the next days
// (default 30 when days <= 0), soonest first.
func (s *Service) UpcomingMaintenance(ctx context.Context, days int) ([]models.MaintenanceRecord, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := s.store.Clock().Now().UTC().AddDate(0, 0, days)
	return s.maintenance.Upcoming(ctx, cutoff)
}

// ===== Categories =====

func (s *Service) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if result := validateCategory(c); !result.Valid {
		return models.Category{}, &ValidationError{Errors: result.Errors}
	}
	return s.categories.Create(ctx, c, s.store.StampCreate())
}

func (s *Service) GetCategory(ctx context.Context, id int) (models.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, id int, patch models.CategoryPatch) (models.Category, error) {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Category{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	categories := s.categories.WithTx(tx)
	c, err := categories.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	patch.Apply(&c)
	if result := validateCategory(c); !result.Valid {
		return models.Category{}, &ValidationError{Errors: result.Errors}
	}
	c, err = categories.Update(ctx, c, s.store.StampUpdate())
	if err != nil {
		return models.Category{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Category{}, fmt.Errorf("commit update: %w", err)
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// ===== Audit =====

func (s *Service) RecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.audit.List(ctx, limit)
}

func (s *Service) AuditLogsForAsset(ctx context.Context, assetID int) ([]models.AuditLog, error) {
	return s.audit.ByEntity(ctx, models.EntityAsset, assetID)
}
