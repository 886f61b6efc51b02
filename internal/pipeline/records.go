package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"

	"items-finder/internal/models"
)

// ParseRecords converts the rows of a validated table into sales records.
// Only columns present in the header are read. A blank Quantity counts as zero.
func ParseRecords(table *models.Table) ([]models.SalesRecord, error) {
	itemCol := table.ColumnIndex(models.ColumnItem)
	qtyCol := table.ColumnIndex(models.ColumnQuantity)
	catCol := table.ColumnIndex(models.ColumnCategory)
	recentCol := table.ColumnIndex(models.ColumnRecentPurchaseQty)

	records := make([]models.SalesRecord, 0, len(table.Rows))
	for i := range table.Rows {
		rec := models.SalesRecord{
			Item:     table.Cell(i, itemCol),
			Category: table.Cell(i, catCol),
		}

		qty, ok, err := parseNumber(table.Cell(i, qtyCol))
		if err != nil {
			return nil, &CellError{Row: i + 2, Column: models.ColumnQuantity, Value: table.Cell(i, qtyCol), Err: err}
		}
		if ok {
			rec.Quantity = qty
		}

		if recentCol >= 0 {
			recent, ok, err := parseNumber(table.Cell(i, recentCol))
			if err != nil {
				return nil, &CellError{Row: i + 2, Column: models.ColumnRecentPurchaseQty, Value: table.Cell(i, recentCol), Err: err}
			}
			rec.RecentPurchaseQty = recent
			rec.HasRecentPurchaseQty = ok
		}

		records = append(records, rec)
	}
	return records, nil
}

func parseNumber(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

// Categories lists the distinct non-blank Category values in first-seen order.
func Categories(table *models.Table) ([]string, error) {
	col := table.ColumnIndex(models.ColumnCategory)
	if col < 0 {
		return nil, &SchemaError{
			Mode:     models.ModeCategory,
			Required: categoryColumns,
			Missing:  []string{models.ColumnCategory},
		}
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i := range table.Rows {
		c := table.Cell(i, col)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	return categories, nil
}
