package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// Ellipsis marks a cell whose content was cut to fit.
const Ellipsis = "…"

// VisibleLen returns the width of s in terminal cells, ignoring ANSI
// escape sequences and counting wide characters as two cells.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most maxWidth cells, appending tail when content
// was dropped. Escape sequences before the cut are preserved.
func Truncate(s string, maxWidth int, tail string) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, tail)
}

// Cut returns the cells of s in [left, right).
func Cut(s string, left, right int) string {
	if right <= left {
		return ""
	}
	return ansi.Cut(s, left, right)
}

// Strip removes escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}

// Fit truncates or pads s to exactly width cells using the alignment.
func Fit(s string, width int, align grid.Align) string {
	if width <= 0 {
		return ""
	}
	if VisibleLen(s) > width {
		return Truncate(s, width, Ellipsis)
	}
	gap := width - VisibleLen(s)
	switch align {
	case grid.AlignRight:
		return strings.Repeat(" ", gap) + s
	case grid.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
