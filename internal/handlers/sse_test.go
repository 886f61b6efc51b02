package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"items-finder/internal/models"
	"items-finder/internal/services"
)

func TestSSEHandlers_renderItemsTable(t *testing.T) {
	handlers := NewSSEHandlers(createTestWorkspace(t), testLogger())
	qty := "4"
	result := &models.Result{
		Mode: models.ModePareto,
		Items: []models.AnnotatedItem{
			{
				RankedItem: models.RankedItem{
					AggregatedItem: models.AggregatedItem{Item: "<b>Widget</b>", TotalQuantity: decimal.NewFromInt(70)},
					Rank:           1,
				},
				Cumulative:        &models.Cumulative{Quantity: decimal.NewFromInt(70), Share: decimal.RequireFromString("0.7")},
				AvailableQuantity: &qty,
			},
		},
	}

	html, err := handlers.renderItemsTable(result)
	if err != nil {
		t.Fatalf("renderItemsTable() failed: %v", err)
	}

	for _, want := range []string{
		`<table class="modern-table">`,
		"<th>Cumulative Share</th>",
		"70.00%",
		"&lt;b&gt;Widget&lt;/b&gt;",
		`value="4"`,
		`name="available_quantity"`,
		"mode=pareto",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestSSEHandlers_renderItemsTable_Empty(t *testing.T) {
	handlers := NewSSEHandlers(createTestWorkspace(t), testLogger())

	html, err := handlers.renderItemsTable(&models.Result{Mode: models.ModeCategory, Items: []models.AnnotatedItem{}})
	if err != nil {
		t.Fatalf("renderItemsTable() failed: %v", err)
	}
	if !strings.Contains(html, "<thead>") || !strings.Contains(html, "No items match") {
		t.Error("empty result should still render a table header and a note")
	}
	if strings.Contains(html, "Cumulative Share") {
		t.Error("category mode has no cumulative column")
	}
}

func TestSSEHandlers_renderChart(t *testing.T) {
	handlers := NewSSEHandlers(createTestWorkspace(t), testLogger())
	result := &models.Result{Items: []models.AnnotatedItem{
		{RankedItem: models.RankedItem{AggregatedItem: models.AggregatedItem{Item: "A", TotalQuantity: decimal.NewFromInt(80)}}},
		{RankedItem: models.RankedItem{AggregatedItem: models.AggregatedItem{Item: "B", TotalQuantity: decimal.NewFromInt(20)}}},
	}}

	html, err := handlers.renderChart(result)
	if err != nil {
		t.Fatalf("renderChart() failed: %v", err)
	}
	if !strings.Contains(html, "width: 100.0%") || !strings.Contains(html, "width: 25.0%") {
		t.Errorf("unexpected bar widths in %s", html)
	}
}

func TestSSEHandlers_HandleItems(t *testing.T) {
	handlers := NewSSEHandlers(createTestWorkspace(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/items?mode=category&category=Elec", nil)
	w := httptest.NewRecorder()
	handlers.HandleItems(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"<table", "Widget", "chartData", "chart-content"} {
		if !strings.Contains(body, want) {
			t.Errorf("response should contain %q", want)
		}
	}
	if strings.Contains(body, "Gadget") {
		t.Error("Gadget has no recent purchases and must be filtered out")
	}
}

func TestSSEHandlers_HandleItems_Signals(t *testing.T) {
	handlers := NewSSEHandlers(createTestWorkspace(t), testLogger())

	signals := url.QueryEscape(`{"mode":"pareto","category":""}`)
	req := httptest.NewRequest(http.MethodGet, "/sse/items?datastar="+signals, nil)
	w := httptest.NewRecorder()
	handlers.HandleItems(w, req)

	if !strings.Contains(w.Body.String(), "Cumulative Share") {
		t.Error("signals should select pareto mode")
	}
}

func TestSSEHandlers_HandleItems_ParetoCategory(t *testing.T) {
	handlers := NewSSEHandlers(createTestWorkspace(t), testLogger())

	tests := []struct {
		name     string
		signals  string
		want     string
		excluded string
	}{
		// Gizmo 10 of 24 is kept; adding Widget reaches 75%.
		{"whole table", `{"mode":"pareto","category":"","chartData":[]}`, "Gizmo", "Widget"},
		// Within Elec, Widget 8 of 14 is kept; Gadget brings it to 100%.
		{"one category", `{"mode":"pareto","category":"Elec","chartData":[]}`, "Widget", "Gizmo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/sse/items?datastar="+url.QueryEscape(tt.signals), nil)
			w := httptest.NewRecorder()
			handlers.HandleItems(w, req)

			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("response should contain %q", tt.want)
			}
			if strings.Contains(body, tt.excluded) {
				t.Errorf("response should not contain %q", tt.excluded)
			}
		})
	}
}

func TestSSEHandlers_HandleItems_Error(t *testing.T) {
	handlers := NewSSEHandlers(services.NewWorkspace(decimal.Zero, testLogger()), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleItems(w, httptest.NewRequest(http.MethodGet, "/sse/items", nil))

	body := w.Body.String()
	if !strings.Contains(body, "Please upload an Excel file to proceed.") {
		t.Error("error message should be patched in")
	}
	if strings.Contains(body, "<table") || strings.Contains(body, "chartData") {
		t.Error("no table or chart data may accompany an error")
	}
}

func TestSSEHandlers_HandleAnnotate(t *testing.T) {
	ws := createTestWorkspace(t)
	handlers := NewSSEHandlers(ws, testLogger())

	form := url.Values{
		"item":               {"Widget"},
		"available_quantity": {"9"},
		"mode":               {"category"},
		"category":           {"Elec"},
	}
	req := httptest.NewRequest(http.MethodPost, "/sse/annotate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handlers.HandleAnnotate(w, req)

	if got := ws.Annotations()["Widget"]; got != "9" {
		t.Errorf("annotation = %q, want 9", got)
	}
	if !strings.Contains(w.Body.String(), `value="9"`) {
		t.Error("re-rendered table should carry the new value")
	}
}

func TestSSEHandlers_HandleAnnotate_MissingItem(t *testing.T) {
	ws := createTestWorkspace(t)
	handlers := NewSSEHandlers(ws, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/sse/annotate", strings.NewReader("available_quantity=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handlers.HandleAnnotate(w, req)

	if !strings.Contains(w.Body.String(), "item is required") {
		t.Error("missing item should be reported")
	}
	if len(ws.Annotations()) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestSSEHandlers_HandleAnnotate_InvalidMode(t *testing.T) {
	ws := createTestWorkspace(t)
	handlers := NewSSEHandlers(ws, testLogger())

	form := url.Values{
		"item":               {"Widget"},
		"available_quantity": {"9"},
		"mode":               {"bogus"},
	}
	req := httptest.NewRequest(http.MethodPost, "/sse/annotate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handlers.HandleAnnotate(w, req)

	if !strings.Contains(w.Body.String(), "Invalid mode") {
		t.Error("invalid mode should be reported")
	}
	if _, ok := ws.Annotations()["Widget"]; ok {
		t.Error("annotation must not be stored when the request is rejected")
	}
}
