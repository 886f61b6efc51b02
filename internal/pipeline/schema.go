package pipeline

import (
	"fmt"

	"items-finder/internal/models"
)

var (
	categoryColumns = []string{
		models.ColumnItem,
		models.ColumnQuantity,
		models.ColumnCategory,
		models.ColumnRecentPurchaseQty,
	}
	paretoColumns = []string{
		models.ColumnItem,
		models.ColumnQuantity,
	}
)

// RequiredColumns lists the header names a mode needs. A Pareto run filtered
// by category also needs the Category column.
func RequiredColumns(mode models.Mode, category string) ([]string, error) {
	switch mode {
	case models.ModeCategory:
		return categoryColumns, nil
	case models.ModePareto:
		if category != "" {
			return append(paretoColumns[:len(paretoColumns):len(paretoColumns)], models.ColumnCategory), nil
		}
		return paretoColumns, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// ValidateSchema returns the table unchanged when every required column is
// present. Column names are matched exactly.
func ValidateSchema(table *models.Table, mode models.Mode, category string) (*models.Table, error) {
	required, err := RequiredColumns(mode, category)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, col := range required {
		if table == nil || table.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Mode: mode, Required: required, Missing: missing}
	}
	return table, nil
}

// ParseMode accepts the wire names of the two modes.
func ParseMode(s string) (models.Mode, error) {
	switch m := models.Mode(s); m {
	case models.ModeCategory, models.ModePareto:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
