package grid

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// shared fixtures
// ---------------------------------------------------------------------------

func testColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "account", Label: "Account", Type: TypeText, Width: 160, Sortable: true, Filterable: true},
		{ID: "department", Label: "Department", Type: TypeEnumerated, Width: 120, Sortable: true, Filterable: true},
		{ID: "budget", Label: "Budget", Type: TypeCurrency, Width: 120, Sortable: true, Filterable: true, Align: AlignRight},
		{ID: "variance", Label: "Variance", Type: TypeCurrency, Width: 120, Sortable: true, Filterable: true, Align: AlignRight},
		{ID: "variancePct", Label: "Var %", Type: TypePercentage, Width: 80, Sortable: true, Filterable: true, Align: AlignRight},
		{ID: "period", Label: "Period", Type: TypeDate, Width: 100, Sortable: true, Filterable: true},
		{ID: "notes", Label: "Notes", Type: TypeText, Width: 200},
	}
}

// accountRows returns n rows with accounts "Account 1000" onwards.
func accountRows(n int) []Row {
	depts := []string{"Finance", "Sales", "Marketing", "Operations"}
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			ID: fmt.Sprintf("r%d", i),
			Values: map[string]any{
				"account":    fmt.Sprintf("Account %d", 1000+i),
				"department": depts[i%len(depts)],
				"budget":     float64(10000 + i*10),
				"variance":   float64((i%7 - 3) * 1000),
				"period":     base.AddDate(0, i%12, 0),
			},
		}
	}
	return rows
}

// varianceRows builds one row per variance value, IDs v0, v1, ...
func varianceRows(values ...any) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{ID: fmt.Sprintf("v%d", i), Values: map[string]any{"variance": v}}
	}
	return rows
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func renderIDs(m RenderModel) []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Row.ID
	}
	return out
}
