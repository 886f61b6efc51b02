package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const maxPreviewRows = 500

// DashboardView is everything the page shows besides what the SSE
// endpoints patch in.
type DashboardView struct {
	Source     string
	Header     []string
	Rows       [][]string
	Categories []string
	Error      string
}

func (v DashboardView) Loaded() bool {
	return v.Header != nil
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Items Finder</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"></script>
<style>
body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:1100px;color:#1f2933}
.modern-table{border-collapse:collapse;width:100%;margin:1rem 0}
.modern-table th,.modern-table td{border-bottom:1px solid #e4e7eb;padding:.4rem .6rem;text-align:left}
.preview{max-height:320px;overflow:auto}
.error{color:#b42318;background:#fef3f2;padding:.75rem;border-radius:6px}
.info{background:#eff8ff;padding:.75rem;border-radius:6px}
.bar-row{display:flex;align-items:center;gap:.5rem;margin:.2rem 0}
.bar-label{width:180px;overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.bar{background:#2e90fa;height:14px}
.download{display:inline-block;margin-top:.5rem}
</style>
</head>
<body>
<h1>Items Finder</h1>
<p>This app allows you to upload a sales data Excel file and identifies the most selling items based on total quantity sold.
You can also manually input the available quantity for each item and save the result as a new Excel file.
Please ensure your file has columns named 'Item', 'Quantity', 'Category', and 'Purchase Qty in last 6 months'.</p>
<form method="post" action="/upload" enctype="multipart/form-data">
<input type="file" name="file" accept=".xlsx">
<button type="submit">Upload</button>
</form>
`

const pageFoot = `</body>
</html>
`

func Dashboard(view DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(pageHead)

		if view.Error != "" {
			fmt.Fprintf(&b, "<p class=\"error\" role=\"alert\">%s</p>\n", templ.EscapeString(view.Error))
		}

		if !view.Loaded() {
			b.WriteString("<p class=\"info\">Please upload an Excel file to proceed.</p>\n")
			b.WriteString(pageFoot)
			_, err := io.WriteString(w, b.String())
			return err
		}

		writePreview(&b, view)
		if err := writeControls(&b, view); err != nil {
			return err
		}

		b.WriteString(pageFoot)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePreview(b *strings.Builder, view DashboardView) {
	fmt.Fprintf(b, "<h2>Uploaded Sales Data</h2>\n<p>%s: %d rows</p>\n",
		templ.EscapeString(view.Source), len(view.Rows))

	b.WriteString("<div class=\"preview\"><table class=\"modern-table\"><thead><tr>")
	for _, h := range view.Header {
		fmt.Fprintf(b, "<th>%s</th>", templ.EscapeString(h))
	}
	b.WriteString("</tr></thead><tbody>\n")

	rows := view.Rows
	if len(rows) > maxPreviewRows {
		rows = rows[:maxPreviewRows]
	}
	for _, row := range rows {
		b.WriteString("<tr>")
		for i := range view.Header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fmt.Fprintf(b, "<td>%s</td>", templ.EscapeString(cell))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table></div>\n")
	if len(view.Rows) > maxPreviewRows {
		fmt.Fprintf(b, "<p>Showing the first %d rows.</p>\n", maxPreviewRows)
	}
}

const allCategoriesLabel = "All categories"

func writeControls(b *strings.Builder, view DashboardView) error {
	selected := ""
	if len(view.Categories) > 0 {
		selected = view.Categories[0]
	}
	signals, err := json.Marshal(map[string]any{
		"mode":      "category",
		"category":  selected,
		"chartData": []any{},
	})
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}

	fmt.Fprintf(b, "<section data-signals=\"%s\">\n", templ.EscapeString(string(signals)))
	// Pareto runs over the whole table unless a category is picked afterwards.
	b.WriteString(`<label>Mode <select data-bind:mode data-on:change="$mode === 'pareto' &amp;&amp; ($category = ''); @get('/sse/items')">
<option value="category">Most selling items in a category</option>
<option value="pareto">Items making up 70% of consumption</option>
</select></label>
`)
	b.WriteString(`<label>Select a Category <select data-bind:category data-on:change="@get('/sse/items')">` + "\n")
	fmt.Fprintf(b, "<option value=\"\">%s</option>\n", allCategoriesLabel)
	for _, c := range view.Categories {
		fmt.Fprintf(b, "<option value=\"%s\">%s</option>\n", templ.EscapeString(c), templ.EscapeString(c))
	}
	b.WriteString("</select></label>\n")

	b.WriteString(`<h2>Most Selling Items with Available Quantities</h2>
<div id="items-content" data-init="@get('/sse/items')"><p>Loading…</p></div>
<div id="chart-content" class="bar-chart"></div>
</section>
`)
	return nil
}
