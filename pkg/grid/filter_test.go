package grid

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestFilterSearchSubstring(t *testing.T) {
	rows := accountRows(10000)
	got := FilterRows(rows, testColumns(), "account 1000", nil)

	if len(got) != 11 {
		t.Fatalf("search matched %d rows, want 11", len(got))
	}
	if got[0].Value("account") != "Account 1000" {
		t.Errorf("first match = %v, want Account 1000", got[0].Value("account"))
	}
	for i, r := range got[1:] {
		want := "Account 1000" + string(rune('0'+i))
		if r.Value("account") != want {
			t.Errorf("match %d = %v, want %s", i+1, r.Value("account"), want)
		}
	}
}

func TestFilterSearchMatchesAnyAttribute(t *testing.T) {
	rows := []Row{
		{ID: "a", Values: map[string]any{"account": "Travel", "notes": "quarterly OFFSITE"}},
		{ID: "b", Values: map[string]any{"account": "Payroll", "notes": "monthly"}},
		{ID: "offsite-3", Values: map[string]any{"account": "Rent"}},
	}
	got := ids(FilterRows(rows, testColumns(), "offsite", nil))
	if diff := cmp.Diff([]string{"a", "offsite-3"}, got); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterSearchDoesNotSpanAttributes(t *testing.T) {
	rows := []Row{{ID: "x", Values: map[string]any{"account": "ab", "notes": "cd"}}}
	if got := FilterRows(rows, testColumns(), "bc", nil); len(got) != 0 {
		t.Errorf("search spanning two attributes matched %v", ids(got))
	}
}

func TestFilterIdentity(t *testing.T) {
	rows := accountRows(50)
	got := FilterRows(rows, testColumns(), "", nil)
	if diff := cmp.Diff(ids(rows), ids(got)); diff != "" {
		t.Errorf("empty filter changed rows (-want +got):\n%s", diff)
	}
	got = FilterRows(rows, testColumns(), "   ", []Filter{})
	if len(got) != len(rows) {
		t.Errorf("blank search kept %d rows, want %d", len(got), len(rows))
	}
}

func TestFilterIdempotent(t *testing.T) {
	rows := accountRows(2000)
	filters := []Filter{{Column: "department", Operator: OpEquals, Value: "Sales"}}
	ix := NewIndex(rows, testColumns())
	first := ix.Filter("account 1", filters)
	second := ix.Filter("account 1", filters)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(ids(FilterRows(rows, testColumns(), "account 1", filters)), ids(ix.Rows(first))); diff != "" {
		t.Errorf("FilterRows and Index.Filter disagree:\n%s", diff)
	}
}

func TestFilterOperators(t *testing.T) {
	rows := []Row{
		{ID: "1", Values: map[string]any{"account": "Cash", "department": "Finance", "variance": -10000, "period": "2024-01-15"}},
		{ID: "2", Values: map[string]any{"account": "Cash Equivalents", "department": "finance", "variance": "30,000", "period": "2024-02-01"}},
		{ID: "3", Values: map[string]any{"account": "Petty cash", "department": "Sales", "variance": 10000.0, "period": time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)}},
		{ID: "4", Values: map[string]any{"account": "Receivables", "department": "Sales", "variance": decimal.NewFromInt(20000), "period": "n/a"}},
		{ID: "5", Values: map[string]any{"account": "Inventory", "variance": "n/a"}},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"equals text exact", Filter{Column: "department", Operator: OpEquals, Value: "Finance"}, []string{"1"}},
		{"equals numeric coerced", Filter{Column: "variance", Operator: OpEquals, Value: "30000.00"}, []string{"2"}},
		{"equals numeric from int", Filter{Column: "variance", Operator: OpEquals, Value: 10000}, []string{"3"}},
		{"equals date same day", Filter{Column: "period", Operator: OpEquals, Value: "2024-03-01"}, []string{"3"}},
		{"contains case-insensitive", Filter{Column: "account", Operator: OpContains, Value: "CASH"}, []string{"1", "2", "3"}},
		{"startsWith case-insensitive", Filter{Column: "account", Operator: OpStartsWith, Value: "cash"}, []string{"1", "2"}},
		{"greaterThan numeric", Filter{Column: "variance", Operator: OpGreaterThan, Value: 0}, []string{"2", "3", "4"}},
		{"greaterThan is strict", Filter{Column: "variance", Operator: OpGreaterThan, Value: 20000}, []string{"2"}},
		{"lessThan numeric", Filter{Column: "variance", Operator: OpLessThan, Value: "10000"}, []string{"1"}},
		{"between inclusive", Filter{Column: "variance", Operator: OpBetween, Value: 10000, Value2: 20000}, []string{"3", "4"}},
		{"between without upper bound", Filter{Column: "variance", Operator: OpBetween, Value: 10000}, []string{"2", "4"}},
		{"date greaterThan by day", Filter{Column: "period", Operator: OpGreaterThan, Value: "2024-02-01"}, []string{"3"}},
		{"date between", Filter{Column: "period", Operator: OpBetween, Value: "2024-01-15", Value2: "2024-02-01"}, []string{"1", "2"}},
		{"non-numeric filter value matches nothing", Filter{Column: "variance", Operator: OpGreaterThan, Value: "lots"}, []string{}},
		{"non-date filter value matches nothing", Filter{Column: "period", Operator: OpLessThan, Value: "soon"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterRows(rows, testColumns(), "", []Filter{tt.filter}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterAndCombination(t *testing.T) {
	rows := accountRows(100)
	filters := []Filter{
		{Column: "variance", Operator: OpGreaterThan, Value: -1},
		{Column: "variance", Operator: OpLessThan, Value: 2500},
		{Column: "department", Operator: OpEquals, Value: "Sales"},
	}
	for _, r := range FilterRows(rows, testColumns(), "", filters) {
		v := r.Value("variance").(float64)
		if v < 0 || v >= 2500 || r.Value("department") != "Sales" {
			t.Errorf("row %s violates the filter set: %v", r.ID, r.Values)
		}
	}
}

func TestFilterStructuredThenSearch(t *testing.T) {
	rows := accountRows(30)
	filters := []Filter{{Column: "department", Operator: OpEquals, Value: "Finance"}}
	got := FilterRows(rows, testColumns(), "account 102", filters)
	for _, r := range got {
		if r.Value("department") != "Finance" {
			t.Errorf("row %s from %v passed a Finance filter", r.ID, r.Value("department"))
		}
	}
	if len(got) == 0 {
		t.Fatal("expected some Finance rows matching account 102")
	}
}

func TestFilterIgnoresStaleEntries(t *testing.T) {
	rows := accountRows(20)
	filters := []Filter{
		{Column: "deleted", Operator: OpEquals, Value: "x"},
		{Column: "notes", Operator: OpEquals, Value: "x"},
		{Column: "account", Operator: "like", Value: "x"},
		{Column: "account", Operator: OpContains, Value: ""},
		{Column: "account", Operator: OpContains, Value: nil},
	}
	got := FilterRows(rows, testColumns(), "", filters)
	if len(got) != len(rows) {
		t.Errorf("stale filters removed rows: got %d, want %d", len(got), len(rows))
	}
	if n := len(IgnoredFilters(testColumns(), filters)); n != len(filters) {
		t.Errorf("IgnoredFilters reported %d entries, want %d", n, len(filters))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	rows := accountRows(10)
	before := ids(rows)
	FilterRows(rows, testColumns(), "account 1001", []Filter{{Column: "variance", Operator: OpGreaterThan, Value: 0}})
	if diff := cmp.Diff(before, ids(rows)); diff != "" {
		t.Errorf("input rows changed:\n%s", diff)
	}
}

func BenchmarkIndexFilterKeystroke(b *testing.B) {
	ix := NewIndex(accountRows(50000), testColumns())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Filter("account 4", nil)
	}
}
