package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/hci-assetdb/internal/service"
)

// HealthHandler reports the local database's self-check.
type HealthHandler struct {
	Service *service.Service
}

// Health returns per-collection counts and heuristic warnings. A storage
// failure maps to 500; warnings still return 200 so probes stay green while
// operators read the body.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.Service.HealthStatus(r.Context())

	status := http.StatusOK
	if report.Status == service.HealthError {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
