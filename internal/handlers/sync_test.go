package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/crucial707/hci-assetdb/internal/store"
	"github.com/crucial707/hci-assetdb/internal/syncer"
)

// okPusher acknowledges every record.
type okPusher struct{}

func (okPusher) Push(ctx context.Context, collection string, id int, record any) error {
	return nil
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

func TestSyncHandler_TriggerSync(t *testing.T) {
	st, svc := newSyncFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "c"}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	h := &SyncHandler{
		Service:    svc,
		Reconciler: syncer.New(st, okPusher{}),
	}

	req := httptest.NewRequest("POST", "/sync", nil)
	rr := httptest.NewRecorder()
	h.TriggerSync(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var result syncer.Result
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Pushed != 1 {
		t.Errorf("pushed: got %d, want 1", result.Pushed)
	}
}

func TestSyncHandler_ExpiredTokenRejected(t *testing.T) {
	st, svc := newSyncFixture(t)

	h := &SyncHandler{
		Service:    svc,
		Reconciler: syncer.New(st, okPusher{}),
		CheckAuth:  func() error { return syncer.ErrTokenExpired },
	}

	req := httptest.NewRequest("POST", "/sync", nil)
	rr := httptest.NewRecorder()
	h.TriggerSync(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("error body missing")
	}
}

func TestSyncHandler_Stats(t *testing.T) {
	st, svc := newSyncFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAsset(ctx, models.Asset{Name: "n", AssetTag: "T-1", Category: "Laptops"}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	h := &SyncHandler{Service: svc, Reconciler: syncer.New(st, okPusher{})}

	req := httptest.NewRequest("GET", "/stats", nil)
	rr := httptest.NewRecorder()
	h.Stats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var body struct {
		Inventory service.Statistics `json:"inventory"`
		Sync      service.SyncStats  `json:"sync"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Inventory.TotalAssets != 1 {
		t.Errorf("total assets: got %d, want 1", body.Inventory.TotalAssets)
	}
	if body.Sync.Pending["assets"] != 1 {
		t.Errorf("pending assets: got %d, want 1", body.Sync.Pending["assets"])
	}
}

func TestHealthHandler(t *testing.T) {
	_, svc := newSyncFixture(t)

	h := &HealthHandler{Service: svc}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	// Empty database warns but the probe still passes.
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var report service.HealthReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Status != service.HealthWarning {
		t.Errorf("report status: got %q, want warning", report.Status)
	}
}

func TestHealthHandler_StorageFailure(t *testing.T) {
	st, svc := newSyncFixture(t)
	st.Close()

	h := &HealthHandler{Service: svc}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}
