// Package perf holds the grid's performance budgets, a small harness that
// runs named benchmarks, and regression detection against the budgets.
package perf

import "testing"

// Threshold defines a performance budget for a named operation. Benchmarks
// that exceed these thresholds indicate a performance regression that should
// be investigated before merging.
type Threshold struct {
	// Name identifies the operation and matches Result.Name.
	Name string

	// MaxNs is the maximum allowed nanoseconds per operation.
	MaxNs int64

	// MaxAlloc is the maximum allowed bytes allocated per operation.
	MaxAlloc int64
}

// Violation records a threshold breach for a specific benchmark.
type Violation struct {
	Threshold Threshold

	// Actual is the measured value that exceeded the threshold.
	Actual int64

	// Field is "ns" for time or "alloc" for bytes allocated.
	Field string
}

// DefaultThresholds returns the budgets for the grid's hot paths over a
// 10,000 row report on a typical development machine.
//
//   - window, layout: pure arithmetic, run on every scroll frame
//   - search_keystroke: index refilter plus resort, the per-keystroke cost
//   - scroll_frame: rewindow and render-model publish only
//   - gridview_render: drawing one 40 row screen
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Name: "window", MaxNs: 1_000, MaxAlloc: 0},
		{Name: "layout", MaxNs: 20_000, MaxAlloc: 8192},
		{Name: "filter_10k", MaxNs: 50_000_000, MaxAlloc: 8_388_608},
		{Name: "sort_10k", MaxNs: 50_000_000, MaxAlloc: 8_388_608},
		{Name: "search_keystroke", MaxNs: 30_000_000, MaxAlloc: 4_194_304},
		{Name: "scroll_frame", MaxNs: 500_000, MaxAlloc: 65536},
		{Name: "gridview_render", MaxNs: 5_000_000, MaxAlloc: 1_048_576},
		{Name: "format_cell", MaxNs: 20_000, MaxAlloc: 1024},
	}
}

// Result is a benchmark result under the name of the budget it is checked
// against.
type Result struct {
	Name string
	testing.BenchmarkResult
}

// CheckRegression compares benchmark results against thresholds and returns
// all violations found. A violation occurs when either the nanoseconds per
// operation exceed MaxNs or the bytes allocated per operation exceed MaxAlloc.
//
// Results are matched to thresholds by name. Results without a matching
// threshold are ignored, as are thresholds without a result. A zero MaxNs
// or MaxAlloc disables that check.
func CheckRegression(results []Result, thresholds []Threshold) []Violation {
	if len(results) == 0 || len(thresholds) == 0 {
		return nil
	}

	threshMap := make(map[string]Threshold, len(thresholds))
	for _, t := range thresholds {
		threshMap[t.Name] = t
	}

	var violations []Violation
	for _, r := range results {
		t, ok := threshMap[r.Name]
		if !ok || r.N == 0 {
			continue
		}
		if ns := r.NsPerOp(); t.MaxNs > 0 && ns > t.MaxNs {
			violations = append(violations, Violation{Threshold: t, Actual: ns, Field: "ns"})
		}
		if alloc := r.AllocedBytesPerOp(); t.MaxAlloc > 0 && alloc > t.MaxAlloc {
			violations = append(violations, Violation{Threshold: t, Actual: alloc, Field: "alloc"})
		}
	}
	return violations
}
