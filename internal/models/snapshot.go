package models

import "time"

// Snapshot is the full-database export envelope. The top-level key names are
// a compatibility contract between export and import and must not change.
type Snapshot struct {
	Assets             []Asset             `json:"assets"`
	Users              []User              `json:"users"`
	Categories         []Category          `json:"categories"`
	MaintenanceRecords []MaintenanceRecord `json:"maintenanceRecords"`
	AuditLogs          []AuditLog          `json:"auditLogs"`
	ExportedAt         time.Time           `json:"exportedAt"`
}
