package grid

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go4.org/mem"
)

// ctxCheckEvery is how many rows a pass scans between cancellation checks.
const ctxCheckEvery = 4096

type predicate func(v any) bool

type compiledFilter struct {
	column string
	match  predicate
}

// compileFilters turns filter entries into predicates. Entries naming an
// unknown or non-filterable column, an unknown operator, or carrying no
// value are returned in ignored and do not take part in filtering.
func compileFilters(columns map[string]ColumnConfig, filters []Filter) (out []compiledFilter, ignored []Filter) {
	for _, f := range filters {
		col, ok := columns[f.Column]
		if !ok || !col.Filterable || !f.Operator.Valid() || blank(f.Value) {
			ignored = append(ignored, f)
			continue
		}
		out = append(out, compiledFilter{column: f.Column, match: compilePredicate(col.Type, f)})
	}
	return out, ignored
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func never(any) bool { return false }

func compilePredicate(t ColumnType, f Filter) predicate {
	switch f.Operator {
	case OpEquals:
		return equalsPredicate(t, f.Value)
	case OpContains:
		needle := mem.S(Stringify(f.Value))
		return func(v any) bool {
			return v != nil && mem.ContainsFold(mem.S(Stringify(v)), needle)
		}
	case OpStartsWith:
		prefix := mem.S(Stringify(f.Value))
		return func(v any) bool {
			return v != nil && mem.HasPrefixFold(mem.S(Stringify(v)), prefix)
		}
	case OpGreaterThan:
		return rangePredicate(t, f.Value, nil, false)
	case OpLessThan:
		return rangePredicate(t, nil, f.Value, false)
	case OpBetween:
		if blank(f.Value2) {
			return rangePredicate(t, f.Value, nil, false)
		}
		return rangePredicate(t, f.Value, f.Value2, true)
	}
	return never
}

func equalsPredicate(t ColumnType, want any) predicate {
	switch {
	case t.Numeric():
		w, ok := ToDecimal(want)
		if !ok {
			return never
		}
		return func(v any) bool {
			d, ok := ToDecimal(v)
			return ok && d.Equal(w)
		}
	case t == TypeDate:
		w, ok := ToTime(want)
		if !ok {
			return never
		}
		return func(v any) bool {
			d, ok := ToTime(v)
			return ok && sameDay(d, w)
		}
	default:
		w := Stringify(want)
		return func(v any) bool { return v != nil && Stringify(v) == w }
	}
}

// rangePredicate matches values above lo and/or below hi. A nil bound is
// open. Bounds are exclusive unless inclusive is set. Date columns compare
// by calendar day, everything else numerically.
func rangePredicate(t ColumnType, lo, hi any, inclusive bool) predicate {
	if t == TypeDate {
		var from, to time.Time
		var ok bool
		if lo != nil {
			if from, ok = ToTime(lo); !ok {
				return never
			}
			from = truncateDay(from)
		}
		if hi != nil {
			if to, ok = ToTime(hi); !ok {
				return never
			}
			to = truncateDay(to)
		}
		return func(v any) bool {
			d, ok := ToTime(v)
			if !ok {
				return false
			}
			return within(truncateDay(d).Compare, from, to, lo != nil, hi != nil, inclusive)
		}
	}

	var from, to decimal.Decimal
	var ok bool
	if lo != nil {
		if from, ok = ToDecimal(lo); !ok {
			return never
		}
	}
	if hi != nil {
		if to, ok = ToDecimal(hi); !ok {
			return never
		}
	}
	return func(v any) bool {
		d, ok := ToDecimal(v)
		if !ok {
			return false
		}
		return within(d.Cmp, from, to, lo != nil, hi != nil, inclusive)
	}
}

func within[T any](cmp func(T) int, lo, hi T, hasLo, hasHi, inclusive bool) bool {
	if hasLo {
		c := cmp(lo)
		if c < 0 || (c == 0 && !inclusive) {
			return false
		}
	}
	if hasHi {
		c := cmp(hi)
		if c > 0 || (c == 0 && !inclusive) {
			return false
		}
	}
	return true
}

// Filter returns the source positions of rows passing every structured
// filter and the free-text search, in source order.
func (ix *Index) Filter(search string, filters []Filter) []int {
	out, _, _ := ix.filter(context.Background(), search, filters)
	return out
}

// filter also returns the filter entries it skipped.
func (ix *Index) filter(ctx context.Context, search string, filters []Filter) ([]int, []Filter, error) {
	preds, ignored := compileFilters(ix.columns, filters)
	term := strings.TrimSpace(search)
	if len(preds) == 0 && term == "" {
		return ix.all(), ignored, nil
	}

	needle := mem.S(term)
	out := make([]int, 0, len(ix.rows))
	for i, r := range ix.rows {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, ignored, err
			}
		}
		if !matchAll(preds, r) {
			continue
		}
		if term != "" && !mem.ContainsFold(mem.S(ix.search[i]), needle) {
			continue
		}
		out = append(out, i)
	}
	return out, ignored, nil
}

func matchAll(preds []compiledFilter, r Row) bool {
	for _, p := range preds {
		if !p.match(r.Value(p.column)) {
			return false
		}
	}
	return true
}

// FilterRows applies filters and search to rows and returns the matching rows
// in their original order. The input slice is not modified.
func FilterRows(rows []Row, columns []ColumnConfig, search string, filters []Filter) []Row {
	ix := NewIndex(rows, columns)
	return ix.Rows(ix.Filter(search, filters))
}

// IgnoredFilters returns the entries FilterRows would skip for these columns.
func IgnoredFilters(columns []ColumnConfig, filters []Filter) []Filter {
	_, ignored := compileFilters(columnIndex(columns), filters)
	return ignored
}
