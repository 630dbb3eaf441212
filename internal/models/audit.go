package models

import "time"

// Audit entity types and actions.
const (
	EntityAsset       = "asset"
	EntityUser        = "user"
	EntityMaintenance = "maintenance"
	EntityCategory    = "category"

	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// FieldChange records one field's before/after values.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// AuditLog is an append-only record of who changed what, from what value to
// what, and when. Entries are never updated and are periodically pruned.
type AuditLog struct {
	ID         int                    `json:"id"`
	EntityType string                 `json:"entityType"`
	EntityID   int                    `json:"entityId"`
	Action     string                 `json:"action"`
	Changes    map[string]FieldChange `json:"changes"`
	UserID     *int                   `json:"userId,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}
