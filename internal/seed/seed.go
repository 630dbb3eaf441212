// Package seed populates a fresh database with baseline data. Seeding is
// idempotent: a store that already holds at least one asset is left alone.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/service"
)

// Run seeds baseline categories, a default admin user, demonstration assets
// and maintenance records. Returns true when anything was written.
func Run(ctx context.Context, svc *service.Service) (bool, error) {
	assets, err := svc.ListAssets(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing assets: %w", err)
	}
	if len(assets) > 0 {
		slog.Debug("seed skipped, assets already present", "count", len(assets))
		return false, nil
	}

	for _, c := range baselineCategories() {
		if _, err := svc.CreateCategory(ctx, c); err != nil {
			return false, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	if _, err := svc.CreateUser(ctx, defaultAdmin()); err != nil {
		return false, fmt.Errorf("seed admin user: %w", err)
	}

	var created []models.Asset
	for _, a := range demoAssets() {
		asset, err := svc.CreateAsset(ctx, a)
		if err != nil {
			return false, fmt.Errorf("seed asset %q: %w", a.Name, err)
		}
		created = append(created, asset)
	}

	for _, m := range demoMaintenance(created) {
		if _, err := svc.CreateMaintenanceRecord(ctx, m); err != nil {
			return false, fmt.Errorf("seed maintenance for asset %d: %w", m.AssetID, err)
		}
	}

	slog.Info("database seeded",
		"categories", len(baselineCategories()),
		"assets", len(created))
	return true, nil
}

func baselineCategories() []models.Category {
	return []models.Category{
		{Name: "Laptops", Description: "Portable computers", Active: true},
		{Name: "Monitors", Description: "Displays and screens", Active: true},
		{Name: "Phones", Description: "Mobile phones and tablets", Active: true},
		{Name: "Peripherals", Description: "Keyboards, mice, docks", Active: true},
		{Name: "Networking", Description: "Switches, routers, access points", Active: true},
	}
}

func defaultAdmin() models.User {
	return models.User{
		Username:  "admin",
		Email:     "admin@example.com",
		FirstName: "System",
		LastName:  "Administrator",
		Role:      models.RoleSuperAdmin,
		Active:    true,
	}
}

func demoAssets() []models.Asset {
	return []models.Asset{
		{
			Name:         "MacBook Pro 16",
			AssetTag:     "LT-0001",
			Category:     "Laptops",
			Status:       models.AssetAvailable,
			Condition:    models.ConditionExcellent,
			Brand:        "Apple",
			Model:        "MacBook Pro",
			SerialNumber: "C02XL0AAJGH5",
			Location:     "HQ / Storage",
		},
		{
			Name:       "ThinkPad X1 Carbon",
			AssetTag:   "LT-0002",
			Category:   "Laptops",
			Status:     models.AssetAssigned,
			Condition:  models.ConditionGood,
			Brand:      "Lenovo",
			Model:      "X1 Carbon Gen 11",
			AssignedTo: "jdoe",
			Location:   "HQ / Floor 2",
		},
		{
			Name:      "Dell UltraSharp 27",
			AssetTag:  "MN-0001",
			Category:  "Monitors",
			Status:    models.AssetAvailable,
			Condition: models.ConditionGood,
			Brand:     "Dell",
			Model:     "U2723QE",
			Location:  "HQ / Storage",
		},
		{
			Name:      "iPhone 15",
			AssetTag:  "PH-0001",
			Category:  "Phones",
			Status:    models.AssetInMaintenance,
			Condition: models.ConditionFair,
			Brand:     "Apple",
			Model:     "iPhone 15",
			Location:  "Repair bench",
		},
	}
}

func demoMaintenance(assets []models.Asset) []models.MaintenanceRecord {
	if len(assets) == 0 {
		return nil
	}
	var records []models.MaintenanceRecord
	for _, a := range assets {
		if a.Status != models.AssetInMaintenance {
			continue
		}
		records = append(records, models.MaintenanceRecord{
			AssetID:         a.ID,
			MaintenanceDate: a.CreatedAt.AddDate(0, 0, 7),
			MaintenanceType: "Repair",
			Description:     "Screen replacement",
			Status:          models.MaintenanceScheduled,
			Priority:        models.PriorityHigh,
		})
	}
	return records
}
