package macq

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the scan length below which loops stay serial.
// Goroutine fan-out costs more than the arithmetic for small states.
const parallelThreshold = 1 << 14

// forRange runs fn over [0, n) split into contiguous chunks, one per CPU.
// fn must be safe to run concurrently on disjoint index ranges.
func forRange(n int, fn func(start, end int)) {
	if n < parallelThreshold {
		fn(0, n)
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// sumRange reduces fn over [0, n) with one partial sum per chunk.
func sumRange(n int, fn func(start, end int) float64) float64 {
	if n < parallelThreshold {
		return fn(0, n)
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	partials := make([]float64, (n+chunk-1)/chunk)
	var g errgroup.Group
	for i, start := 0, 0; start < n; i, start = i+1, start+chunk {
		i, start := i, start
		end := min(start+chunk, n)
		g.Go(func() error {
			partials[i] = fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}
