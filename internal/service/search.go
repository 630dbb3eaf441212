package service

import (
	"context"
	"sort"
	"strings"

	"github.com/crucial707/hci-assetdb/internal/models"
)

// SearchOptions narrow an advanced search before scoring.
type SearchOptions struct {
	Category        string             `json:"category,omitempty"`
	Status          models.AssetStatus `json:"status,omitempty"`
	IncludeInactive bool               `json:"includeInactive,omitempty"`
	Limit           int                `json:"limit,omitempty"`
}

// ScoredAsset pairs an asset with its relevance score.
type ScoredAsset struct {
	models.Asset
	Score int `json:"score"`
}

// AdvancedSearch filters, then ranks. The query is split on whitespace; each
// term is scored independently against every asset and the scores summed:
// +10 exact name, +5 partial name, +8 exact tag, +4 partial tag, +3 brand or
// model, +1 for each other searchable field. RETIRED assets are excluded
// unless IncludeInactive; zero-score assets are dropped; Limit truncates.
func (s *Service) AdvancedSearch(ctx context.Context, query string, opts SearchOptions) ([]ScoredAsset, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	var scored []ScoredAsset
	for _, a := range assets {
		if a.Status == models.AssetRetired && !opts.IncludeInactive {
			continue
		}
		if opts.Category != "" && a.Category != opts.Category {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		score := 0
		for _, term := range terms {
			score += scoreTerm(a, term)
		}
		if score == 0 {
			continue
		}
		scored = append(scored, ScoredAsset{Asset: a, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if opts.Limit > 0 && len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}
	return scored, nil
}

func scoreTerm(a models.Asset, term string) int {
	score := 0

	name := strings.ToLower(a.Name)
	switch {
	case name == term:
		score += 10
	case strings.Contains(name, term):
		score += 5
	}

	tag := strings.ToLower(a.AssetTag)
	switch {
	case tag == term:
		score += 8
	case strings.Contains(tag, term):
		score += 4
	}

	if strings.Contains(strings.ToLower(a.Brand), term) || strings.Contains(strings.ToLower(a.Model), term) {
		score += 3
	}

	for _, field := range []string{a.Category, a.SerialNumber, a.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			score++
		}
	}
	return score
}
