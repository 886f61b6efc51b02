package pipeline

import (
	"github.com/shopspring/decimal"

	"items-finder/internal/models"
)

// DefaultThreshold is the Pareto cut applied when none is configured.
var DefaultThreshold = decimal.RequireFromString("0.70")

// Accumulate attaches running totals and shares along ranked order. When the
// grand total is zero there is nothing to share out and the result is empty.
func Accumulate(items []models.RankedItem) []models.CumulativeItem {
	total := Total(items)
	if total.IsZero() {
		return []models.CumulativeItem{}
	}

	out := make([]models.CumulativeItem, len(items))
	running := decimal.Zero
	for i, it := range items {
		running = running.Add(it.TotalQuantity)
		out[i] = models.CumulativeItem{
			RankedItem: it,
			Cumulative: models.Cumulative{
				Quantity: running,
				Share:    running.Div(total),
			},
		}
	}
	return out
}

// Cut keeps the leading items whose cumulative share is at most threshold.
// The first item above it ends the prefix, so a dominant top item yields
// an empty cut. Shares are rounded for display, so the boundary is checked
// as cumulative quantity against threshold * total, where total is the
// last running sum; items must be the full output of Accumulate.
func Cut(items []models.CumulativeItem, threshold decimal.Decimal) []models.CumulativeItem {
	out := make([]models.CumulativeItem, 0, len(items))
	if len(items) == 0 {
		return out
	}

	limit := threshold.Mul(items[len(items)-1].Cumulative.Quantity)
	for _, it := range items {
		if it.Cumulative.Quantity.GreaterThan(limit) {
			break
		}
		out = append(out, it)
	}
	return out
}
