package dataset

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

var (
	departments = []string{"Finance", "Sales", "Marketing", "Engineering", "Operations", "HR", "Legal"}
	categories  = []string{"Personnel", "Software", "Travel", "Facilities", "Contractors", "Hardware", "Events"}
	owners      = []string{"A. Patel", "J. Moreno", "K. Okafor", "L. Chen", "M. Rossi", "R. Novak", "S. Berg"}
)

// Statuses a generated row can carry.
const (
	StatusOnTrack = "On track"
	StatusOver    = "Over budget"
	StatusUnder   = "Under budget"
)

// FirstAccount is the number of the first generated account.
const FirstAccount = 1000

var hundred = decimal.NewFromInt(100)

// Generate returns n report rows with accounts "Account 1000" onwards. The
// same seed always yields the same rows.
func Generate(n int, seed uint64) []grid.Row {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]grid.Row, n)
	for i := range rows {
		acct := FirstAccount + i
		budget := decimal.New(int64(5_000_00+rng.IntN(495_000_00)), -2)
		// actual lands within +/-25% of budget
		swing := decimal.NewFromInt(int64(rng.IntN(5001) - 2500)).Div(decimal.NewFromInt(10000))
		actual := budget.Add(budget.Mul(swing)).Round(2)
		variance := actual.Sub(budget)
		pct := variance.Div(budget).Mul(hundred).Round(2)

		rows[i] = grid.Row{
			ID: fmt.Sprintf("GL-%d", acct),
			Values: map[string]any{
				ColAccount:     fmt.Sprintf("Account %d", acct),
				ColDepartment:  departments[rng.IntN(len(departments))],
				ColCategory:    categories[rng.IntN(len(categories))],
				ColPeriod:      start.AddDate(0, rng.IntN(12), 0),
				ColOwner:       owners[rng.IntN(len(owners))],
				ColStatus:      status(pct),
				ColBudget:      budget,
				ColActual:      actual,
				ColVariance:    variance,
				ColVariancePct: pct,
			},
		}
	}
	return rows
}

// status classifies a variance percentage; within 5% is on track.
func status(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThan(decimal.NewFromInt(5)):
		return StatusOver
	case pct.LessThan(decimal.NewFromInt(-5)):
		return StatusUnder
	default:
		return StatusOnTrack
	}
}
