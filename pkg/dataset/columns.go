// Package dataset supplies financial report rows for the grid: a
// deterministic generator for the dashboard's mock data, and JSON import
// and export.
package dataset

import "gitlab.com/tinyland/lab/fingrid/pkg/grid"

// Column IDs of the financial report.
const (
	ColAccount     = "account"
	ColDepartment  = "department"
	ColCategory    = "category"
	ColPeriod      = "period"
	ColOwner       = "owner"
	ColStatus      = "status"
	ColBudget      = "budget"
	ColActual      = "actual"
	ColVariance    = "variance"
	ColVariancePct = "variancePct"
)

// FinancialColumns returns the column configuration for report rows.
func FinancialColumns() []grid.ColumnConfig {
	return []grid.ColumnConfig{
		{ID: ColAccount, Label: "Account", Type: grid.TypeText, Width: 160, Sortable: true, Filterable: true, Frozen: true},
		{ID: ColDepartment, Label: "Department", Type: grid.TypeEnumerated, Width: 120, Sortable: true, Filterable: true},
		{ID: ColCategory, Label: "Category", Type: grid.TypeEnumerated, Width: 120, Sortable: true, Filterable: true},
		{ID: ColPeriod, Label: "Period", Type: grid.TypeDate, Width: 104, Sortable: true, Filterable: true},
		{ID: ColBudget, Label: "Budget", Type: grid.TypeCurrency, Width: 120, Sortable: true, Filterable: true, Align: grid.AlignRight},
		{ID: ColActual, Label: "Actual", Type: grid.TypeCurrency, Width: 120, Sortable: true, Filterable: true, Align: grid.AlignRight},
		{ID: ColVariance, Label: "Variance", Type: grid.TypeCurrency, Width: 120, Sortable: true, Filterable: true, Align: grid.AlignRight},
		{ID: ColVariancePct, Label: "Var %", Type: grid.TypePercentage, Width: 80, Sortable: true, Filterable: true, Align: grid.AlignRight},
		{ID: ColOwner, Label: "Owner", Type: grid.TypeText, Width: 128, Sortable: true, Filterable: true},
		{ID: ColStatus, Label: "Status", Type: grid.TypeEnumerated, Width: 104, Sortable: true, Filterable: true, Align: grid.AlignCenter},
	}
}
