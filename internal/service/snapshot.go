package service

import (
	"context"
	"fmt"

	"github.com/crucial707/hci-assetdb/internal/models"
)

// ImportOptions control how a snapshot is restored.
type ImportOptions struct {
	// ClearExisting wipes the four mutable collections before restoring.
	// The audit trail is never wiped.
	ClearExisting bool `json:"clearExisting"`
}

// ExportData snapshots all five collections plus the export instant. The
// envelope's key names are a compatibility contract with ImportData.
func (s *Service) ExportData(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	var err error

	if snap.Assets, err = s.assets.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export assets: %w", err)
	}
	if snap.Users, err = s.users.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export users: %w", err)
	}
	if snap.Categories, err = s.categories.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export categories: %w", err)
	}
	if snap.MaintenanceRecords, err = s.maintenance.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export maintenance records: %w", err)
	}
	if snap.AuditLogs, err = s.audit.ListAll(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export audit logs: %w", err)
	}
	snap.ExportedAt = s.store.Clock().Now().UTC()
	return snap, nil
}

// ImportData restores a snapshot in one transaction, in dependency order:
// categories, users, assets, maintenance records, then audit logs. Rows keep
// their snapshot IDs, timestamps and sync status; an ID collision overwrites
// the stored row (upsert — there is no skip-on-duplicate mode).
func (s *Service) ImportData(ctx context.Context, snap models.Snapshot, opts ImportOptions) error {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	assets := s.assets.WithTx(tx)
	users := s.users.WithTx(tx)
	categories := s.categories.WithTx(tx)
	maintenance := s.maintenance.WithTx(tx)
	audit := s.audit.WithTx(tx)

	if opts.ClearExisting {
		if err := maintenance.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear maintenance records: %w", err)
		}
		if err := assets.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear assets: %w", err)
		}
		if err := users.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := categories.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
	}

	for _, c := range snap.Categories {
		if err := categories.Restore(ctx, c); err != nil {
			return fmt.Errorf("import category %d: %w", c.ID, err)
		}
	}
	for _, u := range snap.Users {
		if err := users.Restore(ctx, u); err != nil {
			return fmt.Errorf("import user %d: %w", u.ID, err)
		}
	}
	for _, a := range snap.Assets {
		if err := assets.Restore(ctx, a); err != nil {
			return fmt.Errorf("import asset %d: %w", a.ID, err)
		}
	}
	for _, m := range snap.MaintenanceRecords {
		if err := maintenance.Restore(ctx, m); err != nil {
			return fmt.Errorf("import maintenance record %d: %w", m.ID, err)
		}
	}
	for _, e := range snap.AuditLogs {
		if err := audit.Restore(ctx, e); err != nil {
			return fmt.Errorf("import audit entry %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}
