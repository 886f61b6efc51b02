package models

import "github.com/shopspring/decimal"

type Mode string

const (
	ModeCategory Mode = "category"
	ModePareto   Mode = "pareto"
)

const (
	ExportMIMEType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportSheetName      = "Sheet1"
	CategoryExportName   = "items_with_available_qty.xlsx"
	ParetoExportName     = "top_70_percent_items_with_available_qty.xlsx"
	defaultExportUnknown = "items.xlsx"
)

// ExportFileName is the default download name for a result of the given mode.
func (m Mode) ExportFileName() string {
	switch m {
	case ModeCategory:
		return CategoryExportName
	case ModePareto:
		return ParetoExportName
	default:
		return defaultExportUnknown
	}
}

// Params carries everything a pipeline run needs besides the table.
type Params struct {
	Category    string            `json:"category"`
	Threshold   decimal.Decimal   `json:"threshold"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

type Result struct {
	Mode          Mode            `json:"mode"`
	Category      string          `json:"category,omitempty"`
	Items         []AnnotatedItem `json:"items"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	InputRows     int             `json:"input_rows"`
	FilteredRows  int             `json:"filtered_rows"`
}

// ChartPoint is one bar of the item vs quantity chart.
type ChartPoint struct {
	Item     string          `json:"item"`
	Quantity decimal.Decimal `json:"quantity"`
}

func (r *Result) ChartData() []ChartPoint {
	points := make([]ChartPoint, 0, len(r.Items))
	for _, it := range r.Items {
		points = append(points, ChartPoint{Item: it.Item, Quantity: it.TotalQuantity})
	}
	return points
}

// ExportRow is a line of the downloaded sheet.
type ExportRow struct {
	Item              string
	AvailableQuantity *string
}

func (r *Result) ExportRows() []ExportRow {
	rows := make([]ExportRow, 0, len(r.Items))
	for _, it := range r.Items {
		rows = append(rows, ExportRow{Item: it.Item, AvailableQuantity: it.AvailableQuantity})
	}
	return rows
}
