package service

import (
	"context"
	"fmt"
	"log/slog"
)

// Retention limits applied by Optimize.
const (
	auditKeepNewest      = 1000
	maintenanceKeepYears = 2
)

// OptimizeResult reports what a pruning pass removed.
type OptimizeResult struct {
	AuditPruned       int64 `json:"auditPruned"`
	MaintenancePruned int64 `json:"maintenancePruned"`
}

// Optimize prunes the audit trail to its newest 1000 entries and deletes
// COMPLETED maintenance records more than two years old. Safe to run
// repeatedly; a second pass with no new data removes nothing.
func (s *Service) Optimize(ctx context.Context) (OptimizeResult, error) {
	var result OptimizeResult
	var err error

	if result.AuditPruned, err = s.audit.PruneKeepNewest(ctx, auditKeepNewest); err != nil {
		return OptimizeResult{}, fmt.Errorf("prune audit log: %w", err)
	}

	cutoff := s.store.Clock().Now().UTC().AddDate(-maintenanceKeepYears, 0, 0)
	if result.MaintenancePruned, err = s.maintenance.DeleteCompletedBefore(ctx, cutoff); err != nil {
		return OptimizeResult{}, fmt.Errorf("prune maintenance records: %w", err)
	}

	if result.AuditPruned > 0 || result.MaintenancePruned > 0 {
		slog.Info("database optimized",
			"audit_pruned", result.AuditPruned,
			"maintenance_pruned", result.MaintenancePruned)
	}
	return result, nil
}
