package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"items-finder/internal/models"
)

// UnreadableFileError wraps any failure to parse the uploaded workbook.
type UnreadableFileError struct {
	Cause error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unable to read spreadsheet: %v", e.Cause)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Cause
}

// Decode reads the first sheet of an xlsx workbook. The first row is the
// header; cells are returned unformatted.
func Decode(r io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &UnreadableFileError{Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &UnreadableFileError{Cause: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &UnreadableFileError{Cause: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}

	table := &models.Table{Header: []string{}, Rows: [][]string{}}
	if len(rows) == 0 {
		return table, nil
	}
	table.Header = rows[0]
	table.Rows = rows[1:]
	return table, nil
}

func DecodeFile(path string) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Encode writes the export sheet: a header row then one row per item with
// columns Item and Available Quantity. Unset quantities are left blank.
func Encode(rows []models.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := models.ExportSheetName
	if f.GetSheetName(0) != sheet {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	header := []any{models.ColumnItem, models.ColumnAvailableQuantity}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		itemCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheet, itemCell, row.Item); err != nil {
			return nil, fmt.Errorf("write item %q: %w", row.Item, err)
		}

		if row.AvailableQuantity == nil {
			continue
		}
		qtyCell, err := excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheet, qtyCell, *row.AvailableQuantity); err != nil {
			return nil, fmt.Errorf("write available quantity for %q: %w", row.Item, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
