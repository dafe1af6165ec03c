package components

import (
	"strings"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// Palette holds the hex colors used to draw a grid. Empty fields leave the
// corresponding text unstyled.
type Palette struct {
	HeaderFG   string
	HeaderBG   string
	AltRowBG   string
	SelectedBG string
	CursorBG   string
	Separator  string
	Negative   string
	Muted      string
}

const (
	sortAscGlyph  = "▲"
	sortDescGlyph = "▼"
	pinSeparator  = "│"
	checkWidth    = 3
	minCellWidth  = 3
)

// Zone ID prefixes passed to GridView.Mark. The rest of the ID is a column
// or row ID.
const (
	ZoneHeaderPrefix = "hdr:"
	ZoneRowPrefix    = "row:"
	ZoneCheckPrefix  = "chk:"
	// ZoneCheckAll marks the header checkbox.
	ZoneCheckAll = "chk:*"
)

func HeaderZone(columnID string) string { return ZoneHeaderPrefix + columnID }
func RowZone(rowID string) string       { return ZoneRowPrefix + rowID }
func CheckZone(rowID string) string     { return ZoneCheckPrefix + rowID }

// GridView draws a grid.RenderModel as terminal lines: a header followed by
// one line per materialized row. Pinned columns stay put while the rest
// scroll horizontally by ScrollX cells.
type GridView struct {
	// Columns supplies labels, types and alignment by column ID.
	Columns []grid.ColumnConfig
	// Width is the number of terminal cells available. Zero disables
	// clipping.
	Width int
	// CellScale converts layout widths to terminal cells. Defaults to 8.
	CellScale int
	ScrollX   int
	// Cursor is the highlighted position in the filtered sequence, or -1.
	Cursor  int
	Palette Palette
	// Mark wraps clickable regions, e.g. with bubblezone. Nil leaves them
	// unmarked.
	Mark func(id, s string) string
}

// placed is a column resolved to terminal cells.
type placed struct {
	layout grid.ColumnLayout
	config grid.ColumnConfig
	cells  int
	x      int
}

func (v GridView) scale() int {
	if v.CellScale <= 0 {
		return 8
	}
	return v.CellScale
}

func (v GridView) mark(id, s string) string {
	if v.Mark == nil {
		return s
	}
	return v.Mark(id, s)
}

// place splits a layout into pinned and scrolling columns with cell
// positions. Pinned x is absolute; scrolling x is relative to the start of
// the scrolling region.
func (v GridView) place(layout []grid.ColumnLayout) (pinned, scrolling []placed, pinnedW int) {
	configs := make(map[string]grid.ColumnConfig, len(v.Columns))
	for _, c := range v.Columns {
		configs[c.ID] = c
	}
	sx := 0
	for _, l := range layout {
		p := placed{layout: l, config: configs[l.ColumnID]}
		if l.ColumnID == grid.SelectionColumnID {
			p.cells = checkWidth
		} else {
			p.cells = max(l.Width/v.scale(), minCellWidth)
		}
		if l.Pinned {
			p.x = pinnedW
			pinnedW += p.cells + 1
			pinned = append(pinned, p)
			continue
		}
		p.x = sx
		sx += p.cells + 1
		scrolling = append(scrolling, p)
	}
	return pinned, scrolling, pinnedW
}

// ScrollWidth returns the total cell width of the scrolling columns.
func (v GridView) ScrollWidth(layout []grid.ColumnLayout) int {
	_, scrolling, _ := v.place(layout)
	if len(scrolling) == 0 {
		return 0
	}
	last := scrolling[len(scrolling)-1]
	return last.x + last.cells + 1
}

// MaxScrollX returns the largest useful ScrollX for a layout.
func (v GridView) MaxScrollX(layout []grid.ColumnLayout) int {
	if v.Width <= 0 {
		return 0
	}
	_, _, pinnedW := v.place(layout)
	avail := v.Width - pinnedW
	if pinnedW > 0 {
		avail -= VisibleLen(pinSeparator)
	}
	return max(v.ScrollWidth(layout)-max(avail, 0), 0)
}

// Render draws the header and the materialized rows.
func (v GridView) Render(m grid.RenderModel) string {
	pinned, scrolling, pinnedW := v.place(m.Columns)
	avail := -1
	if v.Width > 0 {
		avail = v.Width - pinnedW
		if pinnedW > 0 && len(scrolling) > 0 {
			avail -= VisibleLen(pinSeparator)
		}
		avail = max(avail, 0)
	}

	lines := make([]string, 0, len(m.Rows)+2)
	lines = append(lines, v.line(pinned, scrolling, avail, func(p placed) (string, string) {
		return v.headerCell(p, m)
	}))

	switch {
	case m.Loading:
		lines = append(lines, Paint("Loading…", v.Palette.Muted, ""))
	case len(m.Rows) == 0:
		lines = append(lines, Paint("No matching rows", v.Palette.Muted, ""))
	}
	if !m.Loading {
		for _, r := range m.Rows {
			line := v.line(pinned, scrolling, avail, func(p placed) (string, string) {
				return v.rowCell(p, r)
			})
			lines = append(lines, v.mark(RowZone(r.Row.ID), v.rowBackground(line, r)))
		}
	}
	return strings.Join(lines, "\n")
}

// line assembles one output line. cell returns a column's plain padded
// text and its styled form; columns cut by the scroll edge are drawn plain.
func (v GridView) line(pinned, scrolling []placed, avail int, cell func(placed) (string, string)) string {
	var b strings.Builder
	for _, p := range pinned {
		_, styled := cell(p)
		b.WriteString(styled)
		b.WriteByte(' ')
	}
	if len(pinned) > 0 && len(scrolling) > 0 {
		b.WriteString(Paint(pinSeparator, v.Palette.Separator, ""))
	}
	for _, p := range scrolling {
		plain, styled := cell(p)
		if avail < 0 {
			b.WriteString(styled)
			b.WriteByte(' ')
			continue
		}
		lo := max(p.x, v.ScrollX) - p.x
		hi := min(p.x+p.cells+1, v.ScrollX+avail) - p.x
		if hi <= lo {
			continue
		}
		if lo == 0 && hi >= p.cells+1 {
			b.WriteString(styled)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(Cut(plain+" ", lo, hi))
	}
	return b.String()
}

func (v GridView) headerCell(p placed, m grid.RenderModel) (string, string) {
	if p.layout.ColumnID == grid.SelectionColumnID {
		box := checkbox(m.SelectAll)
		return box, v.mark(ZoneCheckAll, box)
	}
	label := p.config.Label
	if label == "" {
		label = p.layout.ColumnID
	}
	if m.Sort.Column == p.layout.ColumnID {
		if m.Sort.Direction == grid.Desc {
			label += sortDescGlyph
		} else {
			label += sortAscGlyph
		}
	}
	plain := Fit(label, p.cells, p.config.Align)
	styled := Paint(Bold(plain), v.Palette.HeaderFG, v.Palette.HeaderBG)
	return plain, v.mark(HeaderZone(p.layout.ColumnID), styled)
}

func (v GridView) rowCell(p placed, r grid.RenderRow) (string, string) {
	if p.layout.ColumnID == grid.SelectionColumnID {
		box := "[ ]"
		if r.Selected {
			box = "[x]"
		}
		return box, v.mark(CheckZone(r.Row.ID), box)
	}
	val := r.Row.Value(p.layout.ColumnID)
	plain := Fit(FormatCell(val, p.config.Type), p.cells, p.config.Align)
	if Negative(val, p.config.Type) {
		return plain, Paint(plain, v.Palette.Negative, "")
	}
	return plain, plain
}

func (v GridView) rowBackground(line string, r grid.RenderRow) string {
	switch {
	case r.Position == v.Cursor:
		return Paint(line, "", v.Palette.CursorBG)
	case r.Selected:
		return Paint(line, "", v.Palette.SelectedBG)
	case r.Position%2 == 1:
		return Paint(line, "", v.Palette.AltRowBG)
	}
	return line
}

func checkbox(c grid.CheckState) string {
	switch c {
	case grid.CheckAll:
		return "[x]"
	case grid.CheckPartial:
		return "[-]"
	default:
		return "[ ]"
	}
}
