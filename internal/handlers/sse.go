package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/starfederation/datastar-go/datastar"

	apperrors "items-finder/internal/errors"
	"items-finder/internal/models"
	"items-finder/internal/services"
)

const maxChartBars = 50

var tableFuncs = template.FuncMap{
	"share": func(c *models.Cumulative) string {
		if c == nil {
			return ""
		}
		return c.Share.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
	},
	"value": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

var itemsTableTemplate = template.Must(template.New("itemsTable").Funcs(tableFuncs).Parse(`
<div id="items-content">
<table class="modern-table">
<thead><tr><th>#</th><th>Item</th><th>Quantity</th>{{if .Pareto}}<th>Cumulative Share</th>{{end}}<th>Available Quantity</th></tr></thead>
<tbody>
{{range .Items}}<tr>
<td>{{.Rank}}</td>
<td>{{.Item}}</td>
<td><strong>{{.TotalQuantity}}</strong></td>
{{if $.Pareto}}<td>{{share .Cumulative}}</td>{{end}}
<td><form data-on:change="@post('/sse/annotate', {contentType: 'form'})">
<input type="hidden" name="mode" value="{{$.Mode}}">
<input type="hidden" name="category" value="{{$.Category}}">
<input type="hidden" name="item" value="{{.Item}}">
<input type="text" name="available_quantity" value="{{value .AvailableQuantity}}" aria-label="Available Quantity for {{.Item}}">
</form></td>
</tr>{{end}}
</tbody>
</table>
{{if not .Items}}<p class="empty">No items match the current selection.</p>{{end}}
<a class="download" href="/api/export?mode={{.Mode}}&category={{.Category}}">Save to Excel</a>
</div>`))

var chartTemplate = template.Must(template.New("chart").Parse(`
<div id="chart-content" class="bar-chart">
{{range .}}<div class="bar-row"><span class="bar-label">{{.Item}}</span><div class="bar" style="width: {{.Width}}%"></div><span class="bar-value">{{.Quantity}}</span></div>
{{end}}</div>`))

var errorTemplate = template.Must(template.New("error").Parse(`
<div id="items-content"><p class="error" role="alert">{{.}}</p></div>`))

const emptyChart = `<div id="chart-content" class="bar-chart"></div>`

type SSEHandlers struct {
	workspace *services.Workspace
	logger    *slog.Logger
}

func NewSSEHandlers(workspace *services.Workspace, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		workspace: workspace,
		logger:    logger,
	}
}

type tableData struct {
	Mode     models.Mode
	Category string
	Pareto   bool
	Items    []models.AnnotatedItem
}

type chartBar struct {
	Item     string
	Quantity decimal.Decimal
	Width    string
}

func (h *SSEHandlers) renderItemsTable(result *models.Result) (string, error) {
	var buf strings.Builder
	err := itemsTableTemplate.Execute(&buf, tableData{
		Mode:     result.Mode,
		Category: result.Category,
		Pareto:   result.Mode == models.ModePareto,
		Items:    result.Items,
	})
	return buf.String(), err
}

func (h *SSEHandlers) renderChart(result *models.Result) (string, error) {
	points := result.ChartData()
	if len(points) > maxChartBars {
		points = points[:maxChartBars]
	}

	peak := decimal.Zero
	for _, p := range points {
		if p.Quantity.GreaterThan(peak) {
			peak = p.Quantity
		}
	}

	bars := make([]chartBar, len(points))
	for i, p := range points {
		width := decimal.Zero
		if peak.IsPositive() && p.Quantity.IsPositive() {
			width = p.Quantity.Div(peak).Mul(decimal.NewFromInt(100))
		}
		bars[i] = chartBar{Item: p.Item, Quantity: p.Quantity, Width: width.StringFixed(1)}
	}

	var buf strings.Builder
	err := chartTemplate.Execute(&buf, bars)
	return buf.String(), err
}

func (h *SSEHandlers) patchError(sse *datastar.ServerSentEventGenerator, err error) {
	appErr := toAppError(err)
	h.logger.Warn("pipeline failed", "code", appErr.Code, "error", err)

	var buf strings.Builder
	if execErr := errorTemplate.Execute(&buf, appErr.UserMessage()); execErr != nil {
		h.logger.Error("render error message", "error", execErr)
		return
	}
	sse.PatchElements(buf.String())
	sse.PatchElements(emptyChart)
}

func (h *SSEHandlers) patchResult(sse *datastar.ServerSentEventGenerator, result *models.Result) {
	table, err := h.renderItemsTable(result)
	if err != nil {
		h.logger.Error("render items table", "error", err)
		return
	}
	chart, err := h.renderChart(result)
	if err != nil {
		h.logger.Error("render chart", "error", err)
		return
	}

	signals, err := json.Marshal(map[string]any{
		"mode":      result.Mode,
		"category":  result.Category,
		"chartData": result.ChartData(),
	})
	if err != nil {
		h.logger.Error("marshal chart data", "error", err)
		return
	}

	sse.PatchElements(table)
	sse.PatchElements(chart)
	sse.PatchSignals(signals)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	mode, category, selErr := readSelection(r)
	sse := datastar.NewSSE(w, r)
	defer flush(w)

	if selErr != nil {
		h.patchError(sse, selErr)
		return
	}

	result, err := h.workspace.Compute(r.Context(), mode, category)
	if err != nil {
		h.patchError(sse, err)
		return
	}
	h.patchResult(sse, result)
}

// HandleAnnotate stores the value typed for one item and re-renders the
// table so the row keeps its value whatever its new rank.
func (h *SSEHandlers) HandleAnnotate(w http.ResponseWriter, r *http.Request) {
	item := r.FormValue("item")
	value := r.FormValue("available_quantity")
	mode, category := r.FormValue("mode"), r.FormValue("category")

	sse := datastar.NewSSE(w, r)
	defer flush(w)

	if item == "" {
		h.patchError(sse, apperrors.Validation("item is required"))
		return
	}
	m, err := parseModeOrDefault(mode)
	if err != nil {
		h.patchError(sse, err)
		return
	}
	h.workspace.Annotate(item, value)

	result, err := h.workspace.Compute(r.Context(), m, category)
	if err != nil {
		h.patchError(sse, err)
		return
	}
	h.patchResult(sse, result)
}
