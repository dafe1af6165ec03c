package components

import (
	"strings"

	"github.com/shopspring/decimal"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// FormatCell renders a row value for display in a column of type t.
// Values that do not coerce to the column type fall back to their plain
// text form.
func FormatCell(v any, t grid.ColumnType) string {
	if v == nil {
		return ""
	}
	switch t {
	case grid.TypeCurrency:
		if d, ok := grid.ToDecimal(v); ok {
			return FormatCurrency(d)
		}
	case grid.TypePercentage:
		if d, ok := grid.ToDecimal(v); ok {
			return d.StringFixed(2) + "%"
		}
	case grid.TypeNumber:
		if d, ok := grid.ToDecimal(v); ok {
			return groupThousands(d.String())
		}
	case grid.TypeDate:
		if at, ok := grid.ToTime(v); ok {
			return at.Format("2006-01-02")
		}
	}
	return grid.Stringify(v)
}

// FormatCurrency renders d as dollars with cents and thousands separators,
// e.g. -$1,234.50.
func FormatCurrency(d decimal.Decimal) string {
	s := groupThousands(d.Abs().StringFixed(2))
	if d.IsNegative() {
		return "-$" + s
	}
	return "$" + s
}

// groupThousands inserts commas into the integer part of a plain decimal
// string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// Negative reports whether a numeric cell value is below zero.
func Negative(v any, t grid.ColumnType) bool {
	if !t.Numeric() {
		return false
	}
	d, ok := grid.ToDecimal(v)
	return ok && d.IsNegative()
}
