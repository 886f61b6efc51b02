package pipeline

import (
	"fmt"

	"items-finder/internal/models"
)

// Compute runs the whole pipeline over table. It keeps no state between calls:
// the selected category, threshold and annotation map all come in params.
func Compute(table *models.Table, mode models.Mode, params models.Params) (*models.Result, error) {
	if _, err := ValidateSchema(table, mode, params.Category); err != nil {
		return nil, err
	}

	records, err := ParseRecords(table)
	if err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}

	filtered := records
	switch mode {
	case models.ModeCategory:
		filtered = FilterRecentPurchases(FilterCategory(records, params.Category))
	case models.ModePareto:
		if params.Category != "" {
			filtered = FilterCategory(records, params.Category)
		}
	}

	ranked := Rank(Aggregate(filtered))

	result := &models.Result{
		Mode:          mode,
		Category:      params.Category,
		TotalQuantity: Total(ranked),
		InputRows:     len(records),
		FilteredRows:  len(filtered),
	}

	if mode == models.ModeCategory {
		result.Items = Annotate(ranked, nil, params.Annotations)
		return result, nil
	}

	threshold := params.Threshold
	if threshold.IsZero() {
		threshold = DefaultThreshold
	}
	cut := Cut(Accumulate(ranked), threshold)

	kept := make([]models.RankedItem, len(cut))
	cumulative := make([]models.Cumulative, len(cut))
	for i, it := range cut {
		kept[i] = it.RankedItem
		cumulative[i] = it.Cumulative
	}
	result.Items = Annotate(kept, cumulative, params.Annotations)
	return result, nil
}
