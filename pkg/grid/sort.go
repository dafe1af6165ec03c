package grid

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// sortKey is a row's value for one column, coerced once per data
// generation. ok is false for values that cannot be coerced to the column
// type; those rows sort last in either direction.
type sortKey struct {
	ok    bool
	num   decimal.Decimal
	at    time.Time
	text  string
	lower string
}

func newSortKey(t ColumnType, v any) sortKey {
	switch {
	case t.Numeric():
		d, ok := ToDecimal(v)
		return sortKey{ok: ok, num: d}
	case t == TypeDate:
		at, ok := ToTime(v)
		return sortKey{ok: ok, at: at}
	default:
		s := Stringify(v)
		return sortKey{ok: s != "", text: s, lower: strings.ToLower(s)}
	}
}

func compareKeys(t ColumnType, a, b sortKey) int {
	switch {
	case t.Numeric():
		return a.num.Cmp(b.num)
	case t == TypeDate:
		return a.at.Compare(b.at)
	default:
		if c := strings.Compare(a.lower, b.lower); c != 0 {
			return c
		}
		return strings.Compare(a.text, b.text)
	}
}

// Sort returns a new ordering of positions by the sort state. When the
// state is inactive or names an unknown or non-sortable column the input
// order is returned as a copy. The sort is stable.
func (ix *Index) Sort(positions []int, s SortState) []int {
	out, _ := ix.sort(context.Background(), positions, s)
	return out
}

func (ix *Index) sort(ctx context.Context, positions []int, s SortState) ([]int, error) {
	out := slices.Clone(positions)
	col, ok := ix.sortColumn(s)
	if !ok || len(out) < 2 {
		return out, nil
	}
	keys := ix.sortKeys(col)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	desc := s.Direction == Desc
	slices.SortStableFunc(out, func(i, j int) int {
		a, b := keys[i], keys[j]
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return 1
		case !b.ok:
			return -1
		}
		c := compareKeys(col.Type, a, b)
		if desc {
			return -c
		}
		return c
	})
	return out, nil
}

func (ix *Index) sortColumn(s SortState) (ColumnConfig, bool) {
	if !s.Active() {
		return ColumnConfig{}, false
	}
	col, ok := ix.columns[s.Column]
	if !ok || !col.Sortable {
		return ColumnConfig{}, false
	}
	return col, true
}

// SortRows returns a stably sorted copy of rows. The input slice is not
// modified.
func SortRows(rows []Row, columns []ColumnConfig, s SortState) []Row {
	ix := NewIndex(rows, columns)
	return ix.Rows(ix.Sort(ix.all(), s))
}

// NextSort is the header-click transition: unsorted -> ascending ->
// descending -> ascending on the same column. Clicking a different column
// starts it ascending.
func NextSort(cur SortState, column string) SortState {
	if cur.Column != column || !cur.Active() {
		return SortState{Column: column, Direction: Asc}
	}
	if cur.Direction == Asc {
		return SortState{Column: column, Direction: Desc}
	}
	return SortState{Column: column, Direction: Asc}
}
