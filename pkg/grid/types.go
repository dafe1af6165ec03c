// Package grid is the data pipeline and viewport engine behind the report
// grid: filtering, sorting, identity-keyed selection, row windowing for
// virtualized rendering and frozen-column layout.
//
// Rows flow one way: source -> Filter -> Sort -> Selection (annotation) ->
// Window -> RenderModel. Layout depends only on column configuration.
package grid

import (
	"errors"
	"fmt"
)

// ColumnType declares how a column's values are coerced, compared and
// formatted.
type ColumnType string

const (
	TypeText       ColumnType = "text"
	TypeNumber     ColumnType = "number"
	TypeCurrency   ColumnType = "currency"
	TypePercentage ColumnType = "percentage"
	TypeDate       ColumnType = "date"
	TypeEnumerated ColumnType = "enumerated"
)

// Numeric reports whether values of this type compare as numbers.
func (t ColumnType) Numeric() bool {
	return t == TypeNumber || t == TypeCurrency || t == TypePercentage
}

// Valid reports whether t is one of the known column types. The empty
// type is treated as text.
func (t ColumnType) Valid() bool {
	switch t {
	case "", TypeText, TypeNumber, TypeCurrency, TypePercentage, TypeDate, TypeEnumerated:
		return true
	}
	return false
}

// Align is the horizontal alignment hint carried through to renderers.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Row is a caller-supplied record. ID is the stable identity; Values holds
// the named attributes. The engine never mutates a Row.
type Row struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// Value returns the attribute stored under column, or nil.
func (r Row) Value(column string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// ColumnConfig describes one configured column.
type ColumnConfig struct {
	ID         string     `toml:"id" yaml:"id" json:"id"`
	Label      string     `toml:"label" yaml:"label" json:"label"`
	Type       ColumnType `toml:"type" yaml:"type" json:"type"`
	Width      int        `toml:"width" yaml:"width" json:"width"`
	Sortable   bool       `toml:"sortable" yaml:"sortable" json:"sortable"`
	Filterable bool       `toml:"filterable" yaml:"filterable" json:"filterable"`
	Frozen     bool       `toml:"frozen" yaml:"frozen" json:"frozen"`
	Align      Align      `toml:"align" yaml:"align" json:"align"`
}

// Operator is a structured filter operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpContains    Operator = "contains"
	OpStartsWith  Operator = "startsWith"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpBetween     Operator = "between"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpEquals, OpContains, OpStartsWith, OpGreaterThan, OpLessThan, OpBetween:
		return true
	}
	return false
}

// Filter is one structured predicate. Value2 is only read by OpBetween.
type Filter struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
	Value2   any      `json:"value2,omitempty"`
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState names at most one sort column. An empty Column means unsorted.
type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a sort column is set.
func (s SortState) Active() bool { return s.Column != "" }

// WindowState is the materialized slice [Start, End] of the filtered and
// sorted sequence. An empty window has End == -1.
type WindowState struct {
	Start       int `json:"start"`
	End         int `json:"end"`
	TopOffset   int `json:"topOffset"`
	TotalHeight int `json:"totalHeight"`
}

// Len returns the number of rows in the window.
func (w WindowState) Len() int {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start + 1
}

// Empty reports whether the window holds no rows.
func (w WindowState) Empty() bool { return w.Len() == 0 }

// ColumnLayout is the resolved placement of one visible column. Left is only
// meaningful when Pinned is true (frozen columns and the checkbox column).
type ColumnLayout struct {
	ColumnID string `json:"columnId"`
	Width    int    `json:"width"`
	Left     int    `json:"left"`
	Pinned   bool   `json:"pinned"`
}

// CheckState is the header checkbox state derived from a selection and the
// currently visible rows.
type CheckState int

const (
	CheckNone CheckState = iota
	CheckPartial
	CheckAll
)

func (c CheckState) String() string {
	switch c {
	case CheckPartial:
		return "partial"
	case CheckAll:
		return "all"
	default:
		return "none"
	}
}

// MarshalText renders the state as its name.
func (c CheckState) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

var (
	ErrDuplicateColumn = errors.New("duplicate column id")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownType     = errors.New("unknown column type")
	ErrFrozenMismatch  = errors.New("frozen flags disagree with frozen column count")
)

// ValidateColumns checks that column IDs are non-empty and unique and that
// every type is known.
func ValidateColumns(columns []ColumnConfig) error {
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if c.ID == "" {
			return fmt.Errorf("column %d: empty id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("column %q: %w", c.ID, ErrDuplicateColumn)
		}
		seen[c.ID] = struct{}{}
		if !c.Type.Valid() {
			return fmt.Errorf("column %q: %w %q", c.ID, ErrUnknownType, c.Type)
		}
	}
	return nil
}

// columnIndex maps column IDs to their configuration.
func columnIndex(columns []ColumnConfig) map[string]ColumnConfig {
	m := make(map[string]ColumnConfig, len(columns))
	for _, c := range columns {
		m[c.ID] = c
	}
	return m
}
