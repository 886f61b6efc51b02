package handlers

import (
	"errors"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	apperrors "items-finder/internal/errors"
	"items-finder/internal/models"
	"items-finder/internal/pipeline"
	"items-finder/internal/services"
	"items-finder/internal/spreadsheet"
)

const (
	uploadMemory = 8 << 20
	signalsParam = "datastar"
)

type selection struct {
	Mode     string `json:"mode"`
	Category string `json:"category"`
}

// readSelection takes mode and category from the query string, then from
// datastar signals when the request carries them. Mode defaults to category.
func readSelection(r *http.Request) (models.Mode, string, error) {
	sel := selection{
		Mode:     r.URL.Query().Get("mode"),
		Category: r.URL.Query().Get("category"),
	}

	if r.URL.Query().Has(signalsParam) {
		var signals selection
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return "", "", apperrors.BadRequestWrap(err, "Invalid signals")
		}
		if signals.Mode != "" {
			sel.Mode = signals.Mode
		}
		if signals.Category != "" {
			sel.Category = signals.Category
		}
	}

	mode, err := parseModeOrDefault(sel.Mode)
	if err != nil {
		return "", "", err
	}
	return mode, sel.Category, nil
}

func parseModeOrDefault(s string) (models.Mode, error) {
	if s == "" {
		return models.ModeCategory, nil
	}
	mode, err := pipeline.ParseMode(s)
	if err != nil {
		return "", apperrors.BadRequestWrap(err, "Invalid mode")
	}
	return mode, nil
}

// toAppError converts pipeline and workspace failures into the single
// user-visible error.
func toAppError(err error) *apperrors.AppError {
	var (
		appErr     *apperrors.AppError
		schemaErr  *pipeline.SchemaError
		unreadable *spreadsheet.UnreadableFileError
		cellErr    *pipeline.CellError
		tooLarge   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, services.ErrNoData):
		return apperrors.NoData("Please upload an Excel file to proceed.")
	case errors.As(err, &schemaErr):
		return apperrors.SchemaWrap(err)
	case errors.As(err, &unreadable), errors.As(err, &cellErr):
		return apperrors.UnreadableFileWrap(err)
	case errors.Is(err, pipeline.ErrUnknownMode):
		return apperrors.BadRequestWrap(err, "Invalid mode")
	case errors.As(err, &tooLarge):
		return apperrors.TooLarge("The uploaded file is too large")
	default:
		return apperrors.InternalWrap(err, "An error occurred")
	}
}
