package models

import "time"

type AssetStatus string

const (
	AssetAvailable     AssetStatus = "AVAILABLE"
	AssetAssigned      AssetStatus = "ASSIGNED"
	AssetInMaintenance AssetStatus = "IN_MAINTENANCE"
	AssetRetired       AssetStatus = "RETIRED"
)

type AssetCondition string

const (
	ConditionExcellent AssetCondition = "EXCELLENT"
	ConditionGood      AssetCondition = "GOOD"
	ConditionFair      AssetCondition = "FAIR"
	ConditionPoor      AssetCondition = "POOR"
)

// Asset is a trackable piece of equipment. IDs and timestamps are
// store-assigned; syncStatus is forced to pending on every write.
type Asset struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	AssetTag       string         `json:"assetTag"`
	Category       string         `json:"category"`
	Status         AssetStatus    `json:"status"`
	Condition      AssetCondition `json:"condition"`
	AssignedTo     string         `json:"assignedTo,omitempty"`
	Location       string         `json:"location,omitempty"`
	Brand          string         `json:"brand,omitempty"`
	Model          string         `json:"model,omitempty"`
	SerialNumber   string         `json:"serialNumber,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	Description    string         `json:"description,omitempty"`
	PurchaseDate   *time.Time     `json:"purchaseDate,omitempty"`
	PurchasePrice  *float64       `json:"purchasePrice,omitempty"`
	WarrantyExpiry *time.Time     `json:"warrantyExpiry,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	SyncStatus     SyncStatus     `json:"syncStatus"`
}

// AssetPatch is a partial update. Nil fields keep their prior value.
type AssetPatch struct {
	Name           *string         `json:"name,omitempty"`
	AssetTag       *string         `json:"assetTag,omitempty"`
	Category       *string         `json:"category,omitempty"`
	Status         *AssetStatus    `json:"status,omitempty"`
	Condition      *AssetCondition `json:"condition,omitempty"`
	AssignedTo     *string         `json:"assignedTo,omitempty"`
	Location       *string         `json:"location,omitempty"`
	Brand          *string         `json:"brand,omitempty"`
	Model          *string         `json:"model,omitempty"`
	SerialNumber   *string         `json:"serialNumber,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	Description    *string         `json:"description,omitempty"`
	PurchaseDate   *time.Time      `json:"purchaseDate,omitempty"`
	PurchasePrice  *float64        `json:"purchasePrice,omitempty"`
	WarrantyExpiry *time.Time      `json:"warrantyExpiry,omitempty"`
}

// Apply merges the patch into a. Timestamps and sync status are not
// patchable; the store stamps them on write.
func (p AssetPatch) Apply(a *Asset) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.AssetTag != nil {
		a.AssetTag = *p.AssetTag
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Condition != nil {
		a.Condition = *p.Condition
	}
	if p.AssignedTo != nil {
		a.AssignedTo = *p.AssignedTo
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Brand != nil {
		a.Brand = *p.Brand
	}
	if p.Model != nil {
		a.Model = *p.Model
	}
	if p.SerialNumber != nil {
		a.SerialNumber = *p.SerialNumber
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.PurchaseDate != nil {
		a.PurchaseDate = p.PurchaseDate
	}
	if p.PurchasePrice != nil {
		a.PurchasePrice = p.PurchasePrice
	}
	if p.WarrantyExpiry != nil {
		a.WarrantyExpiry = p.WarrantyExpiry
	}
}
