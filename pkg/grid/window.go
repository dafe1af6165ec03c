package grid

// ComputeWindow returns the range of rows to materialize for a viewport
// scrolled to scrollTop, padded by overscan rows on each side. It is O(1)
// and never returns indices outside [0, totalRows). Scroll positions past
// the end clamp to the last full viewport; a zero row count yields an empty
// window.
func ComputeWindow(totalRows, rowHeight, scrollTop, viewportHeight, overscan int) WindowState {
	if totalRows <= 0 {
		return WindowState{Start: 0, End: -1}
	}
	if rowHeight <= 0 {
		return WindowState{Start: 0, End: totalRows - 1}
	}
	overscan = max(overscan, 0)
	viewportHeight = max(viewportHeight, 0)

	total := totalRows * rowHeight
	maxScroll := max(total-viewportHeight, 0)
	scrollTop = min(max(scrollTop, 0), maxScroll)

	first := scrollTop / rowHeight
	start := min(max(first-overscan, 0), totalRows-1)
	visible := max(ceilDiv(viewportHeight, rowHeight)+2*overscan, 1)
	end := min(totalRows-1, start+visible-1)

	return WindowState{
		Start:       start,
		End:         end,
		TopOffset:   start * rowHeight,
		TotalHeight: total,
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Windower decides between virtualized windows, plain paging and rendering
// everything.
type Windower struct {
	// Virtual enables windowing once the row count exceeds Threshold.
	Virtual   bool
	Threshold int
	RowHeight int
	Overscan  int
	// PageSize limits each page when Virtual is off. Zero renders all rows.
	PageSize int
}

// Virtualized reports whether total rows would be windowed.
func (w Windower) Virtualized(total int) bool {
	return w.Virtual && total > w.Threshold
}

// Paged reports whether rows are split into pages.
func (w Windower) Paged() bool {
	return !w.Virtual && w.PageSize > 0
}

// PageCount returns the number of pages for total rows, at least 1.
func (w Windower) PageCount(total int) int {
	if !w.Paged() || total <= 0 {
		return 1
	}
	return ceilDiv(total, w.PageSize)
}

// ClampPage limits page to the valid range for total rows.
func (w Windower) ClampPage(total, page int) int {
	return min(max(page, 0), w.PageCount(total)-1)
}

// Window returns the rows to materialize.
func (w Windower) Window(total, scrollTop, viewportHeight, page int) WindowState {
	switch {
	case total <= 0:
		return WindowState{Start: 0, End: -1}
	case w.Virtualized(total):
		return ComputeWindow(total, w.RowHeight, scrollTop, viewportHeight, w.Overscan)
	case w.Paged():
		page = w.ClampPage(total, page)
		start := page * w.PageSize
		end := min(total-1, start+w.PageSize-1)
		return WindowState{
			Start:       start,
			End:         end,
			TotalHeight: (end - start + 1) * max(w.RowHeight, 0),
		}
	default:
		return WindowState{Start: 0, End: total - 1, TotalHeight: total * max(w.RowHeight, 0)}
	}
}
