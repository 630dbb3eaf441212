package service

import (
	"context"

	"github.com/crucial707/hci-assetdb/internal/models"
)

// BulkItemError reports one failed item of a batch.
type BulkItemError struct {
	Index int    `json:"index"`
	ID    int    `json:"id,omitempty"`
	Error string `json:"error"`
}

// BulkCreateResult reports which items were inserted and which failed. The
// batch never aborts on a single item's failure.
type BulkCreateResult struct {
	Created []models.Asset  `json:"created"`
	Errors  []BulkItemError `json:"errors"`
}

// BulkCreateAssets attempts each item independently. Validation failures and
// storage errors (e.g. a duplicate asset tag) are reported per item.
func (s *Service) BulkCreateAssets(ctx context.Context, assets []models.Asset) BulkCreateResult {
	var result BulkCreateResult
	for i, a := range assets {
		created, err := s.CreateAsset(ctx, a)
		if err != nil {
			result.Errors = append(result.Errors, BulkItemError{Index: i, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, created)
	}
	return result
}

// AssetUpdate addresses one asset for a bulk update.
type AssetUpdate struct {
	ID    int               `json:"id"`
	Patch models.AssetPatch `json:"changes"`
}

// BulkUpdateResult reports which items were updated and which failed.
type BulkUpdateResult struct {
	Updated []models.Asset  `json:"updated"`
	Errors  []BulkItemError `json:"errors"`
}

// BulkUpdateAssets attempts each update independently; a missing ID or a
// validation failure fails only its own item.
func (s *Service) BulkUpdateAssets(ctx context.Context, updates []AssetUpdate) BulkUpdateResult {
	var result BulkUpdateResult
	for i, u := range updates {
		updated, err := s.UpdateAsset(ctx, u.ID, u.Patch)
		if err != nil {
			result.Errors = append(result.Errors, BulkItemError{Index: i, ID: u.ID, Error: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, updated)
	}
	return result
}
