// Package pipeline evaluates many scenario files in parallel and ranks the
// results.
package pipeline

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/scenario"
)

// Options controls how scenarios are resolved.
type Options struct {
	Catalog        catalog.Catalog
	DefaultPrompts int
	// Mode applies to scenarios that do not set one.
	Mode model.BucketMode
	// Force overrides every scenario's mode when set.
	Force model.BucketMode
}

// ScenarioResult is the outcome of evaluating one scenario file.
type ScenarioResult struct {
	Path   string       `json:"path"`
	Result model.Result `json:"result"`
	Err    error        `json:"-"`
	Error  string       `json:"error,omitempty"`
}

// LoadResult holds the output of a batch evaluation.
type LoadResult struct {
	Results    []ScenarioResult `json:"results"`
	TotalFiles int              `json:"total_files"`
	Evaluated  int              `json:"evaluated"`
	FileErrors int              `json:"file_errors"`
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load evaluates every file with a bounded worker pool. Results keep the
// order of paths; a failing file is recorded and does not stop the batch.
func Load(paths []string, opts Options, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalFiles: len(paths)}
	if len(paths) == 0 {
		return result
	}

	numWorkers := min(max(runtime.GOMAXPROCS(0), 1), len(paths))

	work := make(chan int, len(paths))
	results := make([]ScenarioResult, len(paths))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range paths {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for range numWorkers {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = Evaluate(paths[idx], opts)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(paths))
				}
			}
		}()
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			result.FileErrors++
		} else {
			result.Evaluated++
		}
	}
	result.Results = results
	return result
}

// Evaluate loads, resolves and computes a single scenario file.
func Evaluate(path string, opts Options) ScenarioResult {
	sr := ScenarioResult{Path: path}
	res, err := evaluate(path, opts)
	if err != nil {
		sr.Err = err
		sr.Error = err.Error()
		return sr
	}
	sr.Result = res
	return sr
}

func evaluate(path string, opts Options) (model.Result, error) {
	f, err := scenario.Load(path)
	if err != nil {
		return model.Result{}, err
	}

	mode := opts.Force
	if mode == "" {
		if mode, err = f.BucketMode(opts.Mode); err != nil {
			return model.Result{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	sel, err := f.Resolve(opts.Catalog, opts.DefaultPrompts)
	if err != nil {
		return model.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	res, err := sel.Compute(calc.Options{Mode: mode})
	if err != nil {
		return model.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// RankBySavings returns the successful results ordered by monthly savings,
// largest first. Ties keep path order.
func RankBySavings(results []ScenarioResult) []ScenarioResult {
	var ok []ScenarioResult
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}
	slices.SortStableFunc(ok, func(a, b ScenarioResult) int {
		return b.Result.Savings.MonthlySavings.Cmp(a.Result.Savings.MonthlySavings)
	})
	return ok
}
