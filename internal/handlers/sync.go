package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crucial707/hci-assetdb/internal/metrics"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/crucial707/hci-assetdb/internal/syncer"
)

// SyncHandler triggers reconciliation passes on demand.
type SyncHandler struct {
	Service    *service.Service
	Reconciler *syncer.Reconciler
	// CheckAuth rejects a pass when the stored credential is unusable.
	CheckAuth func() error
}

// TriggerSync runs one reconciliation pass and reports its outcome.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.CheckAuth != nil {
		if err := h.CheckAuth(); err != nil {
			if errors.Is(err, syncer.ErrTokenExpired) {
				JSONError(w, "auth token expired; login again", http.StatusUnauthorized)
				return
			}
			JSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	result, err := h.Reconciler.Run(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.updatePendingGauges(r)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Stats reports inventory statistics plus pending/conflict sync counts.
func (h *SyncHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	syncStats, err := h.Service.SyncStats(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"inventory": stats,
		"sync":      syncStats,
	})
}

func (h *SyncHandler) updatePendingGauges(r *http.Request) {
	syncStats, err := h.Service.SyncStats(r.Context())
	if err != nil {
		return
	}
	for collection, n := range syncStats.Pending {
		metrics.PendingRows.WithLabelValues(collection).Set(float64(n))
	}
}
