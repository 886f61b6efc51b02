package models

import "github.com/shopspring/decimal"

// Column names expected in the uploaded sheet header.
const (
	ColumnItem              = "Item"
	ColumnQuantity          = "Quantity"
	ColumnCategory          = "Category"
	ColumnRecentPurchaseQty = "Purchase Qty in last 6 months"
	ColumnAvailableQuantity = "Available Quantity"
)

// Table is a raw sheet: the header row and the data rows as cell text.
// Rows may be shorter than Header when trailing cells are blank.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row/col, or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

type SalesRecord struct {
	Item              string
	Quantity          decimal.Decimal
	Category          string
	RecentPurchaseQty decimal.Decimal
	// HasRecentPurchaseQty is false when the cell was blank.
	HasRecentPurchaseQty bool
}

type AggregatedItem struct {
	Item          string          `json:"item"`
	TotalQuantity decimal.Decimal `json:"quantity"`
}

type RankedItem struct {
	AggregatedItem
	Rank int `json:"rank"`
}

type Cumulative struct {
	Quantity decimal.Decimal `json:"cumulative_quantity"`
	Share    decimal.Decimal `json:"cumulative_share"`
}

type CumulativeItem struct {
	RankedItem
	Cumulative
}

type AnnotatedItem struct {
	RankedItem
	Cumulative *Cumulative `json:"cumulative,omitempty"`
	// AvailableQuantity is nil when the user has not entered a value.
	AvailableQuantity *string `json:"available_quantity"`
}
