package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/crucial707/hci-assetdb/internal/metrics"
	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/repo"
	"github.com/crucial707/hci-assetdb/internal/store"
)

// Collection names on the sync wire.
const (
	CollectionAssets      = "assets"
	CollectionUsers       = "users"
	CollectionMaintenance = "maintenance-records"
	CollectionCategories  = "categories"
)

// Result summarizes one reconciliation pass.
type Result struct {
	Pushed    int `json:"pushed"`
	Failed    int `json:"failed"`
	Conflicts int `json:"conflicts"`
}

// Reconciler pushes rows whose syncStatus is pending and marks each
// acknowledged row synced. It bypasses the service layer on purpose: a sync
// acknowledgement must not restamp updatedAt or flip the row back to
// pending.
type Reconciler struct {
	pusher      Pusher
	assets      *repo.AssetRepo
	users       *repo.UserRepo
	maintenance *repo.MaintenanceRepo
	categories  *repo.CategoryRepo
}

func New(st *store.Store, pusher Pusher) *Reconciler {
	return &Reconciler{
		pusher:      pusher,
		assets:      repo.NewAssetRepo(st.DB),
		users:       repo.NewUserRepo(st.DB),
		maintenance: repo.NewMaintenanceRepo(st.DB),
		categories:  repo.NewCategoryRepo(st.DB),
	}
}

// Run performs one pass over the four mutable collections. Per-row failures
// are logged and leave the row pending for the next pass; the pass itself
// only fails when a collection cannot be read at all.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var result Result

	if err := r.syncAssets(ctx, &result); err != nil {
		return result, err
	}
	if err := r.syncUsers(ctx, &result); err != nil {
		return result, err
	}
	if err := r.syncMaintenance(ctx, &result); err != nil {
		return result, err
	}
	if err := r.syncCategories(ctx, &result); err != nil {
		return result, err
	}

	metrics.SyncPassDuration.Observe(time.Since(start).Seconds())
	slog.Info("sync pass finished",
		"pushed", result.Pushed,
		"failed", result.Failed,
		"conflicts", result.Conflicts,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (r *Reconciler) syncAssets(ctx context.Context, result *Result) error {
	pending, err := r.assets.PendingSync(ctx)
	if err != nil {
		return err
	}
	for _, a := range pending {
		r.pushOne(ctx, CollectionAssets, a.ID, a, r.assets.SetSyncStatus, result)
	}
	return nil
}

func (r *Reconciler) syncUsers(ctx context.Context, result *Result) error {
	pending, err := r.users.PendingSync(ctx)
	if err != nil {
		return err
	}
	for _, u := range pending {
		r.pushOne(ctx, CollectionUsers, u.ID, u, r.users.SetSyncStatus, result)
	}
	return nil
}

func (r *Reconciler) syncMaintenance(ctx context.Context, result *Result) error {
	pending, err := r.maintenance.PendingSync(ctx)
	if err != nil {
		return err
	}
	for _, m := range pending {
		r.pushOne(ctx, CollectionMaintenance, m.ID, m, r.maintenance.SetSyncStatus, result)
	}
	return nil
}

func (r *Reconciler) syncCategories(ctx context.Context, result *Result) error {
	pending, err := r.categories.PendingSync(ctx)
	if err != nil {
		return err
	}
	for _, c := range pending {
		r.pushOne(ctx, CollectionCategories, c.ID, c, r.categories.SetSyncStatus, result)
	}
	return nil
}

func (r *Reconciler) pushOne(
	ctx context.Context,
	collection string,
	id int,
	record any,
	setStatus func(context.Context, int, models.SyncStatus) error,
	result *Result,
) {
	err := r.pusher.Push(ctx, collection, id, record)
	switch {
	case err == nil:
		if err := setStatus(ctx, id, models.SyncSynced); err != nil {
			slog.Error("mark synced failed", "collection", collection, "id", id, "error", err)
			result.Failed++
			metrics.SyncPushTotal.WithLabelValues(collection, "error").Inc()
			return
		}
		result.Pushed++
		metrics.SyncPushTotal.WithLabelValues(collection, "synced").Inc()
	case errors.Is(err, ErrConflict):
		if err := setStatus(ctx, id, models.SyncConflict); err != nil {
			slog.Error("mark conflict failed", "collection", collection, "id", id, "error", err)
		}
		result.Conflicts++
		metrics.SyncPushTotal.WithLabelValues(collection, "conflict").Inc()
		slog.Warn("record conflicted", "collection", collection, "id", id)
	default:
		// Row stays pending for the next pass.
		result.Failed++
		metrics.SyncPushTotal.WithLabelValues(collection, "failed").Inc()
		slog.Warn("push failed", "collection", collection, "id", id, "error", err)
	}
}
