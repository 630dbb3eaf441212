package service

import (
	"context"
	"fmt"

	"github.com/crucial707/hci-assetdb/internal/models"
)

// Statistics summarizes the asset inventory for dashboards.
type Statistics struct {
	TotalAssets         int                        `json:"totalAssets"`
	ByStatus            map[models.AssetStatus]int `json:"byStatus"`
	ByCategory          map[string]int             `json:"byCategory"`
	UpcomingMaintenance int                        `json:"upcomingMaintenance"`
}

// Statistics computes inventory totals and the count of maintenance due in
// the next 30 days.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	var err error

	if stats.TotalAssets, err = s.assets.Count(ctx); err != nil {
		return Statistics{}, fmt.Errorf("count assets: %w", err)
	}
	if stats.ByStatus, err = s.assets.CountByStatus(ctx); err != nil {
		return Statistics{}, fmt.Errorf("count by status: %w", err)
	}
	if stats.ByCategory, err = s.assets.CountByCategory(ctx); err != nil {
		return Statistics{}, fmt.Errorf("count by category: %w", err)
	}
	upcoming, err := s.UpcomingMaintenance(ctx, 30)
	if err != nil {
		return Statistics{}, fmt.Errorf("upcoming maintenance: %w", err)
	}
	stats.UpcomingMaintenance = len(upcoming)
	return stats, nil
}

// SyncStats reports how many rows per collection still await a push, and how
// many are in conflict pending manual resolution.
type SyncStats struct {
	Pending   map[string]int `json:"pending"`
	Conflicts map[string]int `json:"conflicts"`
}

func (s *Service) SyncStats(ctx context.Context) (SyncStats, error) {
	stats := SyncStats{
		Pending:   make(map[string]int),
		Conflicts: make(map[string]int),
	}
	type counter struct {
		name  string
		count func(context.Context, models.SyncStatus) (int, error)
	}
	counters := []counter{
		{"assets", s.assets.CountSyncStatus},
		{"users", s.users.CountSyncStatus},
		{"maintenanceRecords", s.maintenance.CountSyncStatus},
		{"categories", s.categories.CountSyncStatus},
	}
	for _, c := range counters {
		pending, err := c.count(ctx, models.SyncPending)
		if err != nil {
			return SyncStats{}, fmt.Errorf("count pending %s: %w", c.name, err)
		}
		conflicts, err := c.count(ctx, models.SyncConflict)
		if err != nil {
			return SyncStats{}, fmt.Errorf("count conflicts %s: %w", c.name, err)
		}
		stats.Pending[c.name] = pending
		stats.Conflicts[c.name] = conflicts
	}
	return stats, nil
}
