package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/fingrid/pkg/components"
	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing…"
	}

	rm := m.visibleModel()
	v := m.view
	v.Cursor = m.cursor

	lines := make([]string, 0, m.height)
	lines = append(lines, m.tuiFit(m.titleLine(rm)), m.tuiFit(m.searchLine(rm)))

	body := strings.Split(v.Render(rm), "\n")
	for len(body) < m.bodyLines()+1 {
		body = append(body, "")
	}
	lines = append(lines, body...)
	lines = append(lines, m.footer())

	out := strings.Join(lines, "\n")
	if m.opts.Zones != nil {
		out = m.opts.Zones.Scan(out)
	}
	return out
}

// visibleModel returns the latest render model cut down to the rows that
// fit in the body.
func (m Model) visibleModel() grid.RenderModel {
	rm := m.grid.Render()
	first := m.firstVisible(rm)
	last := first + m.bodyLines()
	rows := make([]grid.RenderRow, 0, m.bodyLines())
	for _, r := range rm.Rows {
		if r.Position >= first && r.Position < last {
			rows = append(rows, r)
		}
	}
	rm.Rows = rows
	return rm
}

// firstVisible returns the first position drawn. A virtualized grid
// follows its scroll offset; otherwise the model's own offset applies.
func (m Model) firstVisible(rm grid.RenderModel) int {
	if !rm.Virtualized {
		return max(m.top, rm.Window.Start, 0)
	}
	st := m.grid.State()
	h := m.grid.RowHeight()
	limit := max(rm.FilteredRows*h-st.ViewportHeight, 0)
	return min(max(st.ScrollTop, 0), limit) / h
}

func (m Model) titleLine(rm grid.RenderModel) string {
	parts := []string{m.styles.Title.Render("fingrid")}

	count := components.FormatCell(rm.FilteredRows, grid.TypeNumber) + " rows"
	if rm.FilteredRows != rm.TotalRows {
		count = fmt.Sprintf("%s of %s rows",
			components.FormatCell(rm.FilteredRows, grid.TypeNumber),
			components.FormatCell(rm.TotalRows, grid.TypeNumber))
	}
	parts = append(parts, count)

	if rm.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", rm.SelectedCount))
	}
	if rm.Sort.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", rm.Sort.Column, rm.Sort.Direction))
	}
	if !rm.Virtualized && rm.PageCount > 1 {
		parts = append(parts, fmt.Sprintf("page %d/%d", rm.Page+1, rm.PageCount))
	}
	if col := m.Column(); col != "" {
		parts = append(parts, "col "+col)
	}
	return strings.Join(parts, m.styles.Status.Render(" · "))
}

func (m Model) searchLine(rm grid.RenderModel) string {
	if m.mode != modeNone {
		return m.input.View()
	}
	var parts []string
	if rm.Search != "" {
		parts = append(parts, m.styles.SearchLabel.Render("/")+" "+m.styles.Match.Render(rm.Search))
	}
	for _, f := range rm.Filters {
		parts = append(parts, m.styles.FilterChip.Render(tuiDescribeFilter(f)))
	}
	if len(parts) == 0 {
		return m.styles.Status.Render("/ search  f filter  ? help")
	}
	return strings.Join(parts, " ")
}

func (m Model) footer() string {
	switch {
	case m.showHelp:
		return m.help.View(m.keys)
	case m.status != "" && m.statusErr:
		return m.tuiFit(m.styles.Error.Render(m.status))
	case m.status != "":
		return m.tuiFit(m.styles.Status.Render(m.status))
	}
	return m.help.View(m.keys)
}

func (m Model) tuiFit(s string) string {
	if m.width <= 0 {
		return s
	}
	return components.Truncate(s, m.width, components.Ellipsis)
}
