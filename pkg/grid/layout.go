package grid

import "fmt"

const (
	// SelectionColumnID identifies the checkbox column in a resolved layout.
	SelectionColumnID = "__select"
	// CheckboxWidth is the width reserved for the checkbox column.
	CheckboxWidth = 40
	// DefaultColumnWidth is used for columns configured without a width.
	DefaultColumnWidth = 120
)

// ResolveLayout places the visible columns. Visible columns keep their
// configured order except that frozen ones move to the front. Frozen
// columns and the checkbox column are pinned with cumulative left offsets;
// the rest only report a width. A nil visibleIDs shows every column.
func ResolveLayout(columns []ColumnConfig, visibleIDs []string, selectable bool) []ColumnLayout {
	show := func(string) bool { return true }
	if visibleIDs != nil {
		set := make(map[string]struct{}, len(visibleIDs))
		for _, id := range visibleIDs {
			set[id] = struct{}{}
		}
		show = func(id string) bool {
			_, ok := set[id]
			return ok
		}
	}

	out := make([]ColumnLayout, 0, len(columns)+1)
	left := 0
	if selectable {
		out = append(out, ColumnLayout{ColumnID: SelectionColumnID, Width: CheckboxWidth, Pinned: true})
		left = CheckboxWidth
	}

	var scrolling []ColumnLayout
	for _, c := range columns {
		if !show(c.ID) {
			continue
		}
		w := c.Width
		if w <= 0 {
			w = DefaultColumnWidth
		}
		if !c.Frozen {
			scrolling = append(scrolling, ColumnLayout{ColumnID: c.ID, Width: w})
			continue
		}
		out = append(out, ColumnLayout{ColumnID: c.ID, Width: w, Left: left, Pinned: true})
		left += w
	}
	return append(out, scrolling...)
}

// PinnedWidth returns the total width of the pinned prefix of a layout.
func PinnedWidth(layout []ColumnLayout) int {
	w := 0
	for _, l := range layout {
		if !l.Pinned {
			break
		}
		w += l.Width
	}
	return w
}

// ApplyFrozenCount returns a copy of columns with the first n marked
// frozen. Per-column flags stay authoritative: a column past the first n
// that is already flagged frozen is kept frozen and reported as
// ErrFrozenMismatch. n <= 0 leaves the flags untouched.
func ApplyFrozenCount(columns []ColumnConfig, n int) ([]ColumnConfig, error) {
	out := append([]ColumnConfig(nil), columns...)
	if n <= 0 {
		return out, nil
	}
	var err error
	for i := range out {
		switch {
		case i < n:
			out[i].Frozen = true
		case out[i].Frozen && err == nil:
			err = fmt.Errorf("column %q frozen beyond count %d: %w", out[i].ID, n, ErrFrozenMismatch)
		}
	}
	return out, err
}
