package pipeline

import (
	"slices"

	"github.com/shopspring/decimal"

	"items-finder/internal/models"
)

// FilterCategory keeps records whose Category equals category exactly.
// A blank category matches nothing.
func FilterCategory(records []models.SalesRecord, category string) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(records))
	if category == "" {
		return out
	}
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// FilterRecentPurchases drops records without a positive recent purchase
// quantity. Blank cells are dropped too.
func FilterRecentPurchases(records []models.SalesRecord) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(records))
	for _, r := range records {
		if r.HasRecentPurchaseQty && r.RecentPurchaseQty.IsPositive() {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate sums Quantity per distinct Item, in first-seen order. Items are
// compared byte for byte; records with a blank Item are not grouped.
func Aggregate(records []models.SalesRecord) []models.AggregatedItem {
	index := make(map[string]int)
	items := make([]models.AggregatedItem, 0)

	for _, r := range records {
		if r.Item == "" {
			continue
		}
		i, ok := index[r.Item]
		if !ok {
			i = len(items)
			index[r.Item] = i
			items = append(items, models.AggregatedItem{Item: r.Item, TotalQuantity: decimal.Zero})
		}
		items[i].TotalQuantity = items[i].TotalQuantity.Add(r.Quantity)
	}
	return items
}

// Rank orders items by total quantity, highest first. Equal totals keep
// their aggregation order. Ranks start at 1.
func Rank(items []models.AggregatedItem) []models.RankedItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.AggregatedItem) int {
		return b.TotalQuantity.Cmp(a.TotalQuantity)
	})

	ranked := make([]models.RankedItem, len(sorted))
	for i, it := range sorted {
		ranked[i] = models.RankedItem{AggregatedItem: it, Rank: i + 1}
	}
	return ranked
}

// Total sums the quantity of every item.
func Total(items []models.RankedItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalQuantity)
	}
	return total
}
