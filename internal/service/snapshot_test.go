package service

import (
	"context"
	"testing"
	"time"

	"github.com/crucial707/hci-assetdb/internal/models"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src, _ := newTestService(t)
	ctx := context.Background()

	cat, err := src.CreateCategory(ctx, models.Category{Name: "Laptops", Active: true})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	user, err := src.CreateUser(ctx, models.User{
		Username: "jdoe", Email: "jdoe@example.com", FirstName: "J", LastName: "Doe", Active: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	asset, err := src.CreateAsset(ctx, models.Asset{Name: "ThinkPad", AssetTag: "LT-1", Category: "Laptops"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if _, err := src.CreateMaintenanceRecord(ctx, models.MaintenanceRecord{
		AssetID:         asset.ID,
		MaintenanceDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceType: "Repair",
		Description:     "d",
	}); err != nil {
		t.Fatalf("CreateMaintenanceRecord: %v", err)
	}
	if _, err := src.TransferAsset(ctx, asset.ID, "", "jdoe", ""); err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}

	snap, err := src.ExportData(ctx)
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if snap.ExportedAt.IsZero() {
		t.Error("snapshot missing exportedAt")
	}
	if len(snap.Assets) != 1 || len(snap.Users) != 1 || len(snap.Categories) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d assets, %d users, %d categories",
			len(snap.Assets), len(snap.Users), len(snap.Categories))
	}
	if len(snap.MaintenanceRecords) != 2 {
		t.Fatalf("maintenance records in snapshot: got %d, want repair + transfer", len(snap.MaintenanceRecords))
	}
	if len(snap.AuditLogs) != 1 {
		t.Fatalf("audit entries in snapshot: got %d, want 1", len(snap.AuditLogs))
	}

	// Restore into a fresh database.
	dst, _ := newTestService(t)
	if err := dst.ImportData(ctx, snap, ImportOptions{}); err != nil {
		t.Fatalf("ImportData: %v", err)
	}

	restored, err := dst.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset after import: %v", err)
	}
	if restored.Name != "ThinkPad" || !restored.CreatedAt.Equal(snap.Assets[0].CreatedAt) {
		t.Errorf("asset not restored verbatim: %+v", restored)
	}
	if restored.SyncStatus != snap.Assets[0].SyncStatus {
		t.Errorf("sync status not preserved: got %q, want %q", restored.SyncStatus, snap.Assets[0].SyncStatus)
	}
	if _, err := dst.GetUser(ctx, user.ID); err != nil {
		t.Errorf("user not restored: %v", err)
	}
	if _, err := dst.GetCategory(ctx, cat.ID); err != nil {
		t.Errorf("category not restored: %v", err)
	}
	logs, err := dst.AuditLogsForAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("AuditLogsForAsset: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("audit trail not restored: got %d entries", len(logs))
	}
}

func TestImportData_ClearExisting(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateAsset(ctx, models.Asset{Name: "stale", AssetTag: "OLD-1", Category: "c"}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	snap := models.Snapshot{
		Assets: []models.Asset{{
			ID: 50, Name: "fresh", AssetTag: "NEW-1", Category: "c",
			Status: models.AssetAvailable, Condition: models.ConditionGood,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			SyncStatus: models.SyncSynced,
		}},
	}
	if err := svc.ImportData(ctx, snap, ImportOptions{ClearExisting: true}); err != nil {
		t.Fatalf("ImportData: %v", err)
	}

	assets, err := svc.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "fresh" {
		t.Errorf("clear+restore: got %+v, want only the snapshot asset", assets)
	}
}

func TestImportData_UpsertOnIDCollision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAsset(ctx, models.Asset{Name: "original", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	snap := models.Snapshot{
		Assets: []models.Asset{{
			ID: created.ID, Name: "replacement", AssetTag: "T-1", Category: "c",
			Status: models.AssetAvailable, Condition: models.ConditionGood,
			CreatedAt: created.CreatedAt, UpdatedAt: created.UpdatedAt,
			SyncStatus: models.SyncSynced,
		}},
	}
	if err := svc.ImportData(ctx, snap, ImportOptions{}); err != nil {
		t.Fatalf("ImportData: %v", err)
	}

	got, err := svc.GetAsset(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got.Name != "replacement" {
		t.Errorf("ID collision must overwrite, got %q", got.Name)
	}
	assets, err := svc.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 1 {
		t.Errorf("collision created a duplicate: %+v", assets)
	}
}
