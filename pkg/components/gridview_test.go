package components

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func viewColumns() []grid.ColumnConfig {
	return []grid.ColumnConfig{
		{ID: "account", Label: "Account", Type: grid.TypeText, Width: 160, Frozen: true},
		{ID: "department", Label: "Department", Type: grid.TypeEnumerated, Width: 120},
		{ID: "budget", Label: "Budget", Type: grid.TypeCurrency, Width: 120, Align: grid.AlignRight},
	}
}

func viewModel(selectable bool) grid.RenderModel {
	rows := []grid.RenderRow{
		{Position: 0, Row: grid.Row{ID: "a", Values: map[string]any{"account": "Account 1000", "department": "Finance", "budget": 1200.5}}, Selected: true},
		{Position: 1, Row: grid.Row{ID: "b", Values: map[string]any{"account": "Account 1001", "department": "Sales", "budget": -300}}},
	}
	return grid.RenderModel{
		Columns:   grid.ResolveLayout(viewColumns(), nil, selectable),
		Rows:      rows,
		SelectAll: grid.CheckPartial,
		Sort:      grid.SortState{Column: "budget", Direction: grid.Desc},
	}
}

func renderedLines(s string) []string {
	return strings.Split(Strip(s), "\n")
}

// ---------------------------------------------------------------------------
// GridView
// ---------------------------------------------------------------------------

func TestGridViewHeaderAndRows(t *testing.T) {
	v := GridView{Columns: viewColumns(), Cursor: -1}
	lines := renderedLines(v.Render(viewModel(true)))
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	header := lines[0]
	for _, want := range []string{"[-]", "Account", "Department", "Budget▼", pinSeparator} {
		if !strings.Contains(header, want) {
			t.Errorf("header %q missing %q", header, want)
		}
	}
	if !strings.HasPrefix(lines[1], "[x]") || !strings.HasPrefix(lines[2], "[ ]") {
		t.Errorf("checkboxes wrong:\n%s\n%s", lines[1], lines[2])
	}
	if !strings.Contains(lines[1], "$1,200.50") || !strings.Contains(lines[2], "-$300.00") {
		t.Errorf("currency cells not formatted:\n%s\n%s", lines[1], lines[2])
	}
}

func TestGridViewPinnedColumnsStayWhileScrolling(t *testing.T) {
	v := GridView{Columns: viewColumns(), Width: 40, Cursor: -1}
	m := viewModel(false)

	lines := renderedLines(v.Render(m))
	if !strings.Contains(lines[0], "Department") {
		t.Errorf("unscrolled header %q should show Department", lines[0])
	}
	for i, l := range lines {
		if w := VisibleLen(l); w > 40 {
			t.Errorf("line %d is %d cells wide, limit 40", i, w)
		}
	}

	v.ScrollX = v.MaxScrollX(m.Columns)
	if v.ScrollX != 14 {
		t.Errorf("MaxScrollX = %d, want 14", v.ScrollX)
	}
	v.ScrollX = 16
	lines = renderedLines(v.Render(m))
	if !strings.Contains(lines[0], "Account") || !strings.Contains(lines[1], "Account 1000") {
		t.Errorf("frozen column scrolled away:\n%s", strings.Join(lines, "\n"))
	}
	if strings.Contains(lines[0], "Department") || strings.Contains(lines[1], "Finance") {
		t.Errorf("scrolled-off column still drawn:\n%s", strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[0], "Budget") {
		t.Errorf("header %q should show Budget", lines[0])
	}
}

func TestGridViewLoadingAndEmpty(t *testing.T) {
	v := GridView{Columns: viewColumns(), Cursor: -1}
	m := viewModel(false)
	m.Loading = true
	if out := Strip(v.Render(m)); !strings.Contains(out, "Loading…") || strings.Contains(out, "Account 1000") {
		t.Errorf("loading render:\n%s", out)
	}
	m.Loading = false
	m.Rows = nil
	if out := Strip(v.Render(m)); !strings.Contains(out, "No matching rows") {
		t.Errorf("empty render:\n%s", out)
	}
}

func TestGridViewMarksZones(t *testing.T) {
	marked := map[string]bool{}
	v := GridView{
		Columns: viewColumns(),
		Cursor:  -1,
		Mark: func(id, s string) string {
			marked[id] = true
			return s
		},
	}
	v.Render(viewModel(true))
	for _, id := range []string{ZoneCheckAll, HeaderZone("account"), HeaderZone("budget"), RowZone("a"), CheckZone("b")} {
		if !marked[id] {
			t.Errorf("zone %q not marked", id)
		}
	}
}

func TestGridViewPalette(t *testing.T) {
	v := GridView{
		Columns: viewColumns(),
		Cursor:  1,
		Palette: Palette{Negative: "#ff0000", CursorBG: "#000080", SelectedBG: "#003300"},
	}
	lines := strings.Split(v.Render(viewModel(false)), "\n")
	if !strings.Contains(lines[2], Color("#ff0000")) {
		t.Error("negative budget not colored")
	}
	if !strings.HasPrefix(lines[2], BgColor("#000080")) {
		t.Error("cursor row missing cursor background")
	}
	if !strings.HasPrefix(lines[1], BgColor("#003300")) {
		t.Error("selected row missing selection background")
	}
}

// ---------------------------------------------------------------------------
// formatting
// ---------------------------------------------------------------------------

func TestFormatCell(t *testing.T) {
	tests := []struct {
		v    any
		typ  grid.ColumnType
		want string
	}{
		{decimal.RequireFromString("-1234.5"), grid.TypeCurrency, "-$1,234.50"},
		{1234567.891, grid.TypeCurrency, "$1,234,567.89"},
		{"999", grid.TypeCurrency, "$999.00"},
		{"n/a", grid.TypeCurrency, "n/a"},
		{"12.5", grid.TypePercentage, "12.50%"},
		{1234567, grid.TypeNumber, "1,234,567"},
		{time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), grid.TypeDate, "2024-03-01"},
		{"Finance", grid.TypeEnumerated, "Finance"},
		{nil, grid.TypeText, ""},
	}
	for _, tt := range tests {
		if got := FormatCell(tt.v, tt.typ); got != tt.want {
			t.Errorf("FormatCell(%v, %s) = %q, want %q", tt.v, tt.typ, got, tt.want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	tests := map[string]string{
		"0":         "0",
		"999":       "999",
		"1000":      "1,000",
		"123456":    "123,456",
		"-1234.5":   "-1,234.5",
		"1234567.8": "1,234,567.8",
	}
	for in, want := range tests {
		if got := groupThousands(in); got != want {
			t.Errorf("groupThousands(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		s     string
		width int
		align grid.Align
		want  string
	}{
		{"abc", 5, grid.AlignLeft, "abc  "},
		{"abc", 5, grid.AlignRight, "  abc"},
		{"abc", 6, grid.AlignCenter, " abc  "},
		{"abcdef", 4, grid.AlignLeft, "abc…"},
		{"abc", 0, grid.AlignLeft, ""},
	}
	for _, tt := range tests {
		if got := Fit(tt.s, tt.width, tt.align); got != tt.want {
			t.Errorf("Fit(%q, %d, %s) = %q, want %q", tt.s, tt.width, tt.align, got, tt.want)
		}
	}
}

func TestPaint(t *testing.T) {
	if got := Paint("x", "#ff0000", ""); got != "\x1b[38;2;255;0;0mx\x1b[39m" {
		t.Errorf("Paint fg = %q", got)
	}
	if got := Paint("x", "", "00ff00"); got != "\x1b[48;2;0;255;0mx\x1b[49m" {
		t.Errorf("Paint bg = %q", got)
	}
	if got := Paint("x", "nope", "#12"); got != "x" {
		t.Errorf("Paint with bad colors = %q, want plain", got)
	}
}

func TestColorIndex(t *testing.T) {
	if got := Color("208"); got != "\x1b[38;5;208m" {
		t.Errorf("Color(208) = %q", got)
	}
	if got := BgColor("16"); got != "\x1b[48;5;16m" {
		t.Errorf("BgColor(16) = %q", got)
	}
	if got := Color("256"); got != "" {
		t.Errorf("Color(256) = %q, want empty", got)
	}
}
