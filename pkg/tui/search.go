package tui

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

var errFilterSyntax = errors.New("want: <column> <op> <value> [value2]")

// tuiOperators maps the short operator forms accepted in the filter prompt.
var tuiOperators = map[string]grid.Operator{
	"=":  grid.OpEquals,
	"==": grid.OpEquals,
	"~":  grid.OpContains,
	"^":  grid.OpStartsWith,
	">":  grid.OpGreaterThan,
	"<":  grid.OpLessThan,
	"..": grid.OpBetween,
}

// tuiParseFilter parses a filter prompt line such as "budget > 1000",
// "department = Human Resources" or "period between 2024-01-01 2024-03-31".
// Columns match by ID or label, case-insensitively.
func tuiParseFilter(line string, columns []grid.ColumnConfig) (grid.Filter, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return grid.Filter{}, errFilterSyntax
	}

	col, ok := tuiFindColumn(fields[0], columns)
	if !ok {
		return grid.Filter{}, fmt.Errorf("%w: %q", grid.ErrUnknownColumn, fields[0])
	}
	if !col.Filterable {
		return grid.Filter{}, fmt.Errorf("column %q is not filterable", col.ID)
	}

	op, ok := tuiOperators[fields[1]]
	if !ok {
		op = grid.Operator(fields[1])
	}
	if !op.Valid() {
		return grid.Filter{}, fmt.Errorf("unknown operator %q", fields[1])
	}

	f := grid.Filter{Column: col.ID, Operator: op}
	if op != grid.OpBetween {
		f.Value = strings.Join(fields[2:], " ")
		return f, nil
	}

	rest := fields[2:]
	if len(rest) == 1 {
		rest = strings.SplitN(rest[0], "..", 2)
	}
	if len(rest) != 2 || rest[0] == "" || rest[1] == "" {
		return grid.Filter{}, errors.New("between needs two values")
	}
	f.Value, f.Value2 = rest[0], rest[1]
	return f, nil
}

func tuiFindColumn(name string, columns []grid.ColumnConfig) (grid.ColumnConfig, bool) {
	for _, c := range columns {
		if strings.EqualFold(c.ID, name) || strings.EqualFold(c.Label, name) {
			return c, true
		}
	}
	return grid.ColumnConfig{}, false
}

// tuiDescribeFilter renders a filter as a short chip label.
func tuiDescribeFilter(f grid.Filter) string {
	sym := string(f.Operator)
	for s, op := range tuiOperators {
		if op == f.Operator && len(s) == 1 {
			sym = s
		}
	}
	switch f.Operator {
	case grid.OpBetween:
		return fmt.Sprintf("%s %v..%v", f.Column, f.Value, f.Value2)
	default:
		return fmt.Sprintf("%s %s %v", f.Column, sym, f.Value)
	}
}
