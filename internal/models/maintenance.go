package models

import "time"

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"
)

type MaintenancePriority string

const (
	PriorityLow      MaintenancePriority = "LOW"
	PriorityMedium   MaintenancePriority = "MEDIUM"
	PriorityHigh     MaintenancePriority = "HIGH"
	PriorityCritical MaintenancePriority = "CRITICAL"
)

// MaintenanceRecord references an asset by ID. Deleting the asset cascades
// deletion of its maintenance records.
type MaintenanceRecord struct {
	ID              int                 `json:"id"`
	AssetID         int                 `json:"assetId"`
	MaintenanceDate time.Time           `json:"maintenanceDate"`
	MaintenanceType string              `json:"maintenanceType"`
	Description     string              `json:"description"`
	Status          MaintenanceStatus   `json:"status"`
	Priority        MaintenancePriority `json:"priority"`
	PerformedBy     string              `json:"performedBy,omitempty"`
	Cost            *float64            `json:"cost,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	SyncStatus      SyncStatus          `json:"syncStatus"`
}

// MaintenancePatch is a partial update. Nil fields keep their prior value.
type MaintenancePatch struct {
	MaintenanceDate *time.Time           `json:"maintenanceDate,omitempty"`
	MaintenanceType *string              `json:"maintenanceType,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Status          *MaintenanceStatus   `json:"status,omitempty"`
	Priority        *MaintenancePriority `json:"priority,omitempty"`
	PerformedBy     *string              `json:"performedBy,omitempty"`
	Cost            *float64             `json:"cost,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
}

func (p MaintenancePatch) Apply(m *MaintenanceRecord) {
	if p.MaintenanceDate != nil {
		m.MaintenanceDate = *p.MaintenanceDate
	}
	if p.MaintenanceType != nil {
		m.MaintenanceType = *p.MaintenanceType
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Priority != nil {
		m.Priority = *p.Priority
	}
	if p.PerformedBy != nil {
		m.PerformedBy = *p.PerformedBy
	}
	if p.Cost != nil {
		m.Cost = p.Cost
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
}
