// Package parallel provides chunked fork-join loops over sample indices.
package parallel

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum samples per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// chunks splits [0, n) into contiguous ranges, one per worker.
// A single range is returned when parallelism does not pay off.
func (c Config) chunks(n int) [][2]int {
	workers := c.NumWorkers
	if !c.Enabled || workers < 2 || n < 2*max(c.MinChunkSize, 1) {
		return [][2]int{{0, n}}
	}
	size := max((n+workers-1)/workers, c.MinChunkSize)
	out := make([][2]int, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}

// For calls body(lo, hi) for disjoint ranges covering [0, n).
// Ranges run concurrently when cfg allows it; body must only write to
// indices inside its own range.
func For(n int, cfg Config, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	parts := cfg.chunks(n)
	if len(parts) == 1 {
		body(0, n)
		return
	}

	var wg sync.WaitGroup
	for _, p := range parts {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			body(lo, hi)
		}(p[0], p[1])
	}
	wg.Wait()
}

// Sum returns the sum of xs. Partial sums are combined in chunk order, so
// the result only depends on cfg and xs, not on goroutine scheduling.
func Sum(xs []float64, cfg Config) float64 {
	parts := cfg.chunks(len(xs))
	if len(parts) <= 1 {
		return floats.Sum(xs)
	}

	partial := make([]float64, len(parts))
	var wg sync.WaitGroup
	for k, p := range parts {
		wg.Add(1)
		go func(k, lo, hi int) {
			defer wg.Done()
			partial[k] = floats.Sum(xs[lo:hi])
		}(k, p[0], p[1])
	}
	wg.Wait()
	return floats.Sum(partial)
}
