package service

import (
	"context"
	"fmt"
)

// Health statuses.
const (
	HealthHealthy = "healthy"
	HealthWarning = "warning"
	HealthError   = "error"
)

// Thresholds for health warnings.
const auditWarnThreshold = 5000

// HealthReport is a quick self-check: per-collection counts plus heuristic
// warnings. Status is "error" only when the store itself failed while
// counting — empty collections are warnings, not errors.
type HealthReport struct {
	Status   string         `json:"status"`
	Counts   map[string]int `json:"counts"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (s *Service) HealthStatus(ctx context.Context) HealthReport {
	report := HealthReport{Counts: make(map[string]int)}

	type counter struct {
		name  string
		count func(context.Context) (int, error)
	}
	counters := []counter{
		{"assets", s.assets.Count},
		{"users", s.users.Count},
		{"maintenanceRecords", s.maintenance.Count},
		{"categories", s.categories.Count},
		{"auditLogs", s.audit.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			report.Status = HealthError
			report.Error = fmt.Sprintf("count %s: %v", c.name, err)
			return report
		}
		report.Counts[c.name] = n
	}

	if report.Counts["auditLogs"] > auditWarnThreshold {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("audit log has %d entries; run optimize", report.Counts["auditLogs"]))
	}
	if report.Counts["assets"] == 0 {
		report.Warnings = append(report.Warnings, "no assets in database")
	}
	if report.Counts["categories"] == 0 {
		report.Warnings = append(report.Warnings, "no categories in database")
	}

	if len(report.Warnings) > 0 {
		report.Status = HealthWarning
	} else {
		report.Status = HealthHealthy
	}
	return report
}
