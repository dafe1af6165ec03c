package perf

import (
	"fmt"
	"sync"
	"testing"
)

// Case is a named benchmark body.
type Case struct {
	Name string
	Fn   func(b *testing.B)
}

// Measure runs each case with testing.Benchmark using up to maxWorkers
// goroutines. Results come back in input order. A case that panics yields a
// zero result, which CheckRegression skips, and is reported in the error.
//
// If maxWorkers <= 0, it defaults to 1 (serial execution).
func Measure(cases []Case, maxWorkers int) ([]Result, error) {
	results := make([]Result, len(cases))
	if len(cases) == 0 {
		return results, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	errs := make([]error, len(cases))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxWorkers)
	for i, c := range cases {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = pfRun(c)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// pfRun benchmarks one case. A panic in the body is recovered inside the
// benchmark goroutine and fails the run.
func pfRun(c Case) (Result, error) {
	res := Result{Name: c.Name}
	if c.Fn == nil {
		return res, fmt.Errorf("perf: %s: nil benchmark", c.Name)
	}
	var (
		mu       sync.Mutex
		panicked any
	)
	res.BenchmarkResult = testing.Benchmark(func(b *testing.B) {
		defer func() {
			if r := recover(); r != nil {
				mu.Lock()
				panicked = r
				mu.Unlock()
				b.Fail()
			}
		}()
		c.Fn(b)
	})
	mu.Lock()
	defer mu.Unlock()
	if panicked != nil {
		return Result{Name: c.Name}, fmt.Errorf("perf: %s: panic: %v", c.Name, panicked)
	}
	return res, nil
}
