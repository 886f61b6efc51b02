package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"items-finder/internal/models"
)

var ErrUnknownMode = errors.New("unknown mode")

// SchemaError reports required columns absent from the uploaded header.
type SchemaError struct {
	Mode     models.Mode
	Required []string
	Missing  []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Required))
	for i, c := range e.Required {
		quoted[i] = "'" + c + "'"
	}
	return fmt.Sprintf("missing required columns %s: the file must contain columns %s",
		strings.Join(e.Missing, ", "), joinWithAnd(quoted))
}

// CellError reports a numeric column holding text that is not a number.
type CellError struct {
	Row    int // 1-based sheet row, header included
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d: column %q: invalid number %q", e.Row, e.Column, e.Value)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

func joinWithAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}
