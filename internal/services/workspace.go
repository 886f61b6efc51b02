package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"items-finder/internal/models"
	"items-finder/internal/observability"
	"items-finder/internal/pipeline"
	"items-finder/internal/spreadsheet"
)

// ErrNoData is returned when a computation is requested before any upload.
var ErrNoData = errors.New("no sales data uploaded")

type Preview struct {
	Source     string     `json:"source"`
	Header     []string   `json:"header"`
	Rows       [][]string `json:"rows"`
	RowCount   int        `json:"row_count"`
	Categories []string   `json:"categories"`
	LoadedAt   time.Time  `json:"loaded_at"`
}

// Workspace holds the state of the interactive session: the last uploaded
// table and the available-quantity annotations keyed by item. Every query
// reruns the pipeline over that state.
type Workspace struct {
	mu          sync.RWMutex
	table       *models.Table
	source      string
	loadedAt    time.Time
	annotations map[string]string
	threshold   decimal.Decimal
	runs        atomic.Int64
	logger      *slog.Logger
}

func NewWorkspace(threshold decimal.Decimal, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	if !threshold.IsPositive() {
		threshold = pipeline.DefaultThreshold
	}
	return &Workspace{
		annotations: make(map[string]string),
		threshold:   threshold,
		logger:      logger,
	}
}

// endSpan closes span and logs it at debug level under its request's trace.
func (w *Workspace) endSpan(span *observability.Span) {
	span.Finish()
	w.logger.Debug("span finished", "span", span)
}

// Load decodes an uploaded workbook and replaces the current table. Previous
// annotations are discarded.
func (w *Workspace) Load(ctx context.Context, source string, r io.Reader) (*Preview, error) {
	_, span := observability.StartSpan(ctx, "workspace.load")
	defer w.endSpan(span)

	start := time.Now()
	table, err := spreadsheet.Decode(r)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	w.SetTable(source, table)
	w.logger.Info("sales data loaded",
		"source", source,
		"rows", len(table.Rows),
		"columns", len(table.Header),
		"duration", time.Since(start),
	)

	return w.Preview()
}

func (w *Workspace) LoadFile(ctx context.Context, path string) error {
	table, err := spreadsheet.DecodeFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	w.SetTable(path, table)
	w.logger.Info("seed data loaded", "path", path, "rows", len(table.Rows))
	return nil
}

func (w *Workspace) SetTable(source string, table *models.Table) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.table = table
	w.source = source
	w.loadedAt = time.Now()
	w.annotations = make(map[string]string)
}

func (w *Workspace) Preview() (*Preview, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.table == nil {
		return nil, ErrNoData
	}

	categories, err := pipeline.Categories(w.table)
	if err != nil {
		categories = []string{}
	}

	return &Preview{
		Source:     w.source,
		Header:     w.table.Header,
		Rows:       w.table.Rows,
		RowCount:   len(w.table.Rows),
		Categories: categories,
		LoadedAt:   w.loadedAt,
	}, nil
}

func (w *Workspace) Categories() ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.table == nil {
		return nil, ErrNoData
	}
	return pipeline.Categories(w.table)
}

// Annotate records the available quantity entered for item. An empty value
// clears it.
func (w *Workspace) Annotate(item, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if value == "" {
		delete(w.annotations, item)
		return
	}
	w.annotations[item] = value
}

func (w *Workspace) Annotations() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return maps.Clone(w.annotations)
}

// Compute reruns the pipeline. In category mode an empty category selects
// the first category of the table.
func (w *Workspace) Compute(ctx context.Context, mode models.Mode, category string) (*models.Result, error) {
	_, span := observability.StartSpan(ctx, "workspace.compute")
	defer w.endSpan(span)
	span.SetTag("mode", string(mode))

	w.mu.RLock()
	table := w.table
	params := models.Params{
		Category:    category,
		Threshold:   w.threshold,
		Annotations: maps.Clone(w.annotations),
	}
	w.mu.RUnlock()

	if table == nil {
		span.SetError(ErrNoData)
		return nil, ErrNoData
	}

	if mode == models.ModeCategory && params.Category == "" {
		if categories, err := pipeline.Categories(table); err == nil && len(categories) > 0 {
			params.Category = categories[0]
		}
	}
	span.SetTag("category", params.Category)

	start := time.Now()
	result, err := pipeline.Compute(table, mode, params)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	w.runs.Add(1)

	w.logger.Debug("pipeline run",
		"mode", mode,
		"category", params.Category,
		"input_rows", result.InputRows,
		"filtered_rows", result.FilteredRows,
		"items", len(result.Items),
		"duration", time.Since(start),
	)
	return result, nil
}

// Export computes the result and encodes it as the download workbook.
func (w *Workspace) Export(ctx context.Context, mode models.Mode, category string) (string, []byte, error) {
	result, err := w.Compute(ctx, mode, category)
	if err != nil {
		return "", nil, err
	}

	data, err := spreadsheet.Encode(result.ExportRows())
	if err != nil {
		return "", nil, fmt.Errorf("encode export: %w", err)
	}
	return mode.ExportFileName(), data, nil
}

func (w *Workspace) Stats() map[string]any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rows := 0
	if w.table != nil {
		rows = len(w.table.Rows)
	}

	return map[string]any{
		"source":       w.source,
		"rows":         rows,
		"loaded_at":    w.loadedAt,
		"annotations":  len(w.annotations),
		"pipeline_run": w.runs.Load(),
		"threshold":    w.threshold.String(),
	}
}
