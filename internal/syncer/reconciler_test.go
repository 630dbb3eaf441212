package syncer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/repo"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/crucial707/hci-assetdb/internal/store"
)

// fakePusher scripts per-record outcomes keyed by "collection/id".
type fakePusher struct {
	fail   map[string]error
	pushed []string
}

func (p *fakePusher) Push(ctx context.Context, collection string, id int, record any) error {
	key := fmt.Sprintf("%s/%d", collection, id)
	p.pushed = append(p.pushed, key)
	return p.fail[key]
}

func newSyncFixture(t *testing.T) (*store.Store, *service.Service) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, service.New(st)
}

func TestReconciler_MarksPushedRowsSynced(t *testing.T) {
	st, svc := newSyncFixture(t)
	ctx := context.Background()

	asset, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	cat, err := svc.CreateCategory(ctx, models.Category{Name: "Laptops", Active: true})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	pusher := &fakePusher{}
	result, err := New(st, pusher).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Pushed != 2 || result.Failed != 0 || result.Conflicts != 0 {
		t.Errorf("result: %+v, want 2 pushed", result)
	}

	gotAsset, err := svc.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if gotAsset.SyncStatus != models.SyncSynced {
		t.Errorf("asset sync status: got %q, want synced", gotAsset.SyncStatus)
	}
	gotCat, err := svc.GetCategory(ctx, cat.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if gotCat.SyncStatus != models.SyncSynced {
		t.Errorf("category sync status: got %q, want synced", gotCat.SyncStatus)
	}

	// An acknowledged row is not pushed again.
	pusher2 := &fakePusher{}
	result, err = New(st, pusher2).Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.Pushed != 0 || len(pusher2.pushed) != 0 {
		t.Errorf("second pass pushed %v", pusher2.pushed)
	}
}

func TestReconciler_ConflictMarksRow(t *testing.T) {
	st, svc := newSyncFixture(t)
	ctx := context.Background()

	asset, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	pusher := &fakePusher{fail: map[string]error{
		fmt.Sprintf("assets/%d", asset.ID): ErrConflict,
	}}
	result, err := New(st, pusher).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Conflicts != 1 || result.Pushed != 0 {
		t.Errorf("result: %+v, want 1 conflict", result)
	}

	got, err := svc.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got.SyncStatus != models.SyncConflict {
		t.Errorf("sync status: got %q, want conflict", got.SyncStatus)
	}

	// Conflicted rows are out of the pending pool; the next pass skips them.
	pusher2 := &fakePusher{}
	if _, err := New(st, pusher2).Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(pusher2.pushed) != 0 {
		t.Errorf("conflicted row pushed again: %v", pusher2.pushed)
	}
}

func TestReconciler_FailureIsolatedPerRow(t *testing.T) {
	st, svc := newSyncFixture(t)
	ctx := context.Background()

	bad, err := svc.CreateAsset(ctx, models.Asset{Name: "bad", AssetTag: "T-1", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	good, err := svc.CreateAsset(ctx, models.Asset{Name: "good", AssetTag: "T-2", Category: "c"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	pusher := &fakePusher{fail: map[string]error{
		fmt.Sprintf("assets/%d", bad.ID): errors.New("connection reset"),
	}}
	result, err := New(st, pusher).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Pushed != 1 || result.Failed != 1 {
		t.Errorf("result: %+v, want 1 pushed and 1 failed", result)
	}

	// The failed row stays pending for the next pass; the good one is done.
	pending, err := repo.NewAssetRepo(st.DB).PendingSync(ctx)
	if err != nil {
		t.Fatalf("PendingSync: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != bad.ID {
		t.Errorf("pending after pass: %+v, want only the failed row", pending)
	}
	gotGood, err := svc.GetAsset(ctx, good.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if gotGood.SyncStatus != models.SyncSynced {
		t.Errorf("good row: got %q, want synced", gotGood.SyncStatus)
	}
}

func TestReconciler_CoversAllCollections(t *testing.T) {
	st, svc := newSyncFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if _, err := svc.CreateUser(ctx, models.User{
		Username: "jdoe", Email: "jdoe@example.com", FirstName: "J", LastName: "Doe", Active: true,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, models.Category{Name: "Laptops", Active: true}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	pusher := &fakePusher{}
	result, err := New(st, pusher).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Pushed != 3 {
		t.Errorf("pushed: got %d, want 3 (%v)", result.Pushed, pusher.pushed)
	}

	for _, collection := range []string{CollectionAssets, CollectionUsers, CollectionCategories} {
		found := false
		for _, key := range pusher.pushed {
			if len(key) > len(collection) && key[:len(collection)] == collection {
				found = true
			}
		}
		if !found {
			t.Errorf("collection %s never pushed: %v", collection, pusher.pushed)
		}
	}
}
