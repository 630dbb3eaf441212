package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/repo"
	"github.com/crucial707/hci-assetdb/internal/store"
)

// steppingClock advances one second per Now call so successive write stamps
// are strictly ordered.
type steppingClock struct {
	at time.Time
}

func (c *steppingClock) Now() time.Time {
	c.at = c.at.Add(time.Second)
	return c.at
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	st.SetClock(&steppingClock{at: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})
	return New(st), st
}

func TestCreateAsset_StampsAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAsset(ctx, models.Asset{
		Name:     "MacBook Pro",
		AssetTag: "LT-0001",
		Category: "Laptops",
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if created.Status != models.AssetAvailable {
		t.Errorf("default status: got %q, want AVAILABLE", created.Status)
	}
	if created.Condition != models.ConditionGood {
		t.Errorf("default condition: got %q, want GOOD", created.Condition)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("new asset: createdAt %v != updatedAt %v", created.CreatedAt, created.UpdatedAt)
	}
	if created.SyncStatus != models.SyncPending {
		t.Errorf("sync status: got %q, want pending", created.SyncStatus)
	}
}

func TestCreateAsset_ValidationRejects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAsset(ctx, models.Asset{AssetTag: "LT-1", Category: "Laptops"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, msg := range verr.Errors {
		if msg == "name is required" {
			found = true
		}
	}
	if !found {
		t.Errorf("error list missing name rule: %v", verr.Errors)
	}

	// Nothing was written.
	assets, err := svc.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 0 {
		t.Errorf("rejected asset was persisted: %+v", assets)
	}
}

func TestCreateAsset_NegativePriceRejected(t *testing.T) {
	svc, _ := newTestService(t)

	price := -10.0
	_, err := svc.CreateAsset(context.Background(), models.Asset{
		Name: "n", AssetTag: "T-1", Category: "c", PurchasePrice: &price,
	})
	if err == nil || !strings.Contains(err.Error(), "purchasePrice") {
		t.Errorf("expected purchasePrice rule, got %v", err)
	}
}

func TestUpdateAsset_MergesPatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAsset(ctx, models.Asset{
		Name: "ThinkPad", AssetTag: "LT-2", Category: "Laptops", Location: "HQ",
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	status := models.AssetRetired
	updated, err := svc.UpdateAsset(ctx, created.ID, models.AssetPatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if updated.Status != models.AssetRetired {
		t.Errorf("status not applied: %+v", updated)
	}
	if updated.Name != "ThinkPad" || updated.Location != "HQ" {
		t.Errorf("unpatched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt not advanced: %v then %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed on update: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.SyncStatus != models.SyncPending {
		t.Errorf("update must flip syncStatus back to pending, got %q", updated.SyncStatus)
	}
}

func TestUpdateAsset_ResetsAckedSyncStatus(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	// Simulate a sync acknowledgement.
	if err := repo.NewAssetRepo(st.DB).SetSyncStatus(ctx, created.ID, models.SyncSynced); err != nil {
		t.Fatalf("SetSyncStatus: %v", err)
	}

	notes := "touched"
	updated, err := svc.UpdateAsset(ctx, created.ID, models.AssetPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if updated.SyncStatus != models.SyncPending {
		t.Errorf("post-ack edit: got %q, want pending", updated.SyncStatus)
	}
}

func TestUpdateAsset_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "ghost"
	_, err := svc.UpdateAsset(context.Background(), 999, models.AssetPatch{Name: &name})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteAsset_CascadesMaintenance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.CreateMaintenanceRecord(ctx, models.MaintenanceRecord{
			AssetID:         created.ID,
			MaintenanceDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			MaintenanceType: "Repair",
			Description:     "d",
		})
		if err != nil {
			t.Fatalf("CreateMaintenanceRecord: %v", err)
		}
	}

	if err := svc.DeleteAsset(ctx, created.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}

	if _, err := svc.GetAsset(ctx, created.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("asset still readable after delete: %v", err)
	}
	records, err := svc.ListMaintenanceRecords(ctx)
	if err != nil {
		t.Fatalf("ListMaintenanceRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("maintenance records survived cascade: %+v", records)
	}
}

func TestDeleteAsset_NotFoundLeavesRecords(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if _, err := svc.CreateMaintenanceRecord(ctx, models.MaintenanceRecord{
		AssetID:         created.ID,
		MaintenanceDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceType: "Repair",
		Description:     "d",
	}); err != nil {
		t.Fatalf("CreateMaintenanceRecord: %v", err)
	}

	if err := svc.DeleteAsset(ctx, 999); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("DeleteAsset missing id: got %v, want ErrNotFound", err)
	}

	records, err := svc.ListMaintenanceRecords(ctx)
	if err != nil {
		t.Fatalf("ListMaintenanceRecords: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("failed delete must not remove other assets' records, got %d", len(records))
	}
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), models.User{
		Username: "jdoe", Email: "not-an-email", FirstName: "J", LastName: "Doe",
	})
	if err == nil || !strings.Contains(err.Error(), "email") {
		t.Errorf("expected email rule, got %v", err)
	}
}

func TestUpcomingMaintenance_DefaultWindow(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	now := st.Clock().Now()
	if _, err := svc.CreateMaintenanceRecord(ctx, models.MaintenanceRecord{
		AssetID:         1,
		MaintenanceDate: now.AddDate(0, 0, 10),
		MaintenanceType: "Inspection",
		Description:     "inside window",
	}); err != nil {
		t.Fatalf("CreateMaintenanceRecord: %v", err)
	}
	if _, err := svc.CreateMaintenanceRecord(ctx, models.MaintenanceRecord{
		AssetID:         1,
		MaintenanceDate: now.AddDate(0, 3, 0),
		MaintenanceType: "Inspection",
		Description:     "outside window",
	}); err != nil {
		t.Fatalf("CreateMaintenanceRecord: %v", err)
	}

	due, err := svc.UpcomingMaintenance(ctx, 0)
	if err != nil {
		t.Fatalf("UpcomingMaintenance: %v", err)
	}
	if len(due) != 1 || due[0].Description != "inside window" {
		t.Errorf("default window: got %+v, want only the record due within 30 days", due)
	}
}
