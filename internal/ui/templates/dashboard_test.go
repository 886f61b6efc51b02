package templates

import (
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, view DashboardView) string {
	t.Helper()
	var b strings.Builder
	if err := Dashboard(view).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func TestDashboard_Empty(t *testing.T) {
	html := render(t, DashboardView{})

	if !strings.Contains(html, "Please upload an Excel file to proceed.") {
		t.Error("empty dashboard should ask for an upload")
	}
	if strings.Contains(html, "items-content") {
		t.Error("empty dashboard should not request items")
	}
}

func TestDashboard_Loaded(t *testing.T) {
	html := render(t, DashboardView{
		Source:     "sales.xlsx",
		Header:     []string{"Item", "Quantity", "Category"},
		Rows:       [][]string{{"<Widget>", "5", "Elec"}, {"Gizmo"}},
		Categories: []string{"Elec", "Tools"},
	})

	for _, want := range []string{
		"<th>Item</th>",
		"&lt;Widget&gt;",
		`<option value="Tools">Tools</option>`,
		`id="items-content"`,
		`id="chart-content"`,
		"sales.xlsx: 2 rows",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(html, "<Widget>") {
		t.Error("cell text must be escaped")
	}
	if strings.Count(html, "<tr>") != 3 {
		t.Errorf("expected header + 2 rows, got %d", strings.Count(html, "<tr>"))
	}
}

func TestDashboard_Error(t *testing.T) {
	html := render(t, DashboardView{Error: "An error occurred while reading the file: zip: not a valid zip file"})

	if !strings.Contains(html, `class="error"`) || !strings.Contains(html, "not a valid zip file") {
		t.Error("error message should be shown")
	}
}

func TestDashboard_AllCategoriesOption(t *testing.T) {
	html := render(t, DashboardView{
		Source:     "sales.xlsx",
		Header:     []string{"Item"},
		Categories: []string{"Elec", "Tools"},
	})

	all := strings.Index(html, `<option value="">All categories</option>`)
	if all < 0 {
		t.Fatal("category select should offer all categories")
	}
	if first := strings.Index(html, `<option value="Elec">`); first < all {
		t.Error("all categories should be listed before the first category")
	}
	if !strings.Contains(html, `$mode === 'pareto' &amp;&amp; ($category = '')`) {
		t.Error("switching to pareto should clear the category")
	}
}
