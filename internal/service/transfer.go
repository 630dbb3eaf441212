package service

import (
	"context"
	"fmt"

	"github.com/crucial707/hci-assetdb/internal/models"
)

// TransferAsset reassigns an asset in one transaction: the asset's
// assignedTo/status change, an audit entry captures the prior and new
// holder, and a COMPLETED "Transfer" maintenance record describes the move.
// All three writes commit together; a nonexistent ID writes nothing.
func (s *Service) TransferAsset(ctx context.Context, assetID int, fromUser, toUser, notes string) (models.Asset, error) {
	tx, err := s.store.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Asset{}, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback()

	assets := s.assets.WithTx(tx)
	a, err := assets.Get(ctx, assetID)
	if err != nil {
		return models.Asset{}, err
	}

	a.AssignedTo = toUser
	a.Status = models.AssetAssigned
	stamp := s.store.StampUpdate()
	a, err = assets.Update(ctx, a, stamp)
	if err != nil {
		return models.Asset{}, err
	}

	_, err = s.audit.WithTx(tx).Log(ctx, models.AuditLog{
		EntityType: models.EntityAsset,
		EntityID:   assetID,
		Action:     models.ActionUpdate,
		Changes: map[string]models.FieldChange{
			"assignedTo": {Old: fromUser, New: toUser},
		},
	}, stamp.UpdatedAt)
	if err != nil {
		return models.Asset{}, fmt.Errorf("audit transfer: %w", err)
	}

	record := models.MaintenanceRecord{
		AssetID:         assetID,
		MaintenanceDate: stamp.UpdatedAt,
		MaintenanceType: "Transfer",
		Description:     fmt.Sprintf("Transferred from %s to %s", fromUser, toUser),
		Status:          models.MaintenanceCompleted,
		Priority:        models.PriorityLow,
		Notes:           notes,
	}
	if _, err := s.maintenance.WithTx(tx).Create(ctx, record, s.store.StampCreate()); err != nil {
		return models.Asset{}, fmt.Errorf("record transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Asset{}, fmt.Errorf("commit transfer: %w", err)
	}
	return a, nil
}
