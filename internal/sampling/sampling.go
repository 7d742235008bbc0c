// Package sampling generates seeded standard-normal sample vectors for
// Monte-Carlo simulation.
package sampling

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method selects how normal samples are drawn.
type Method int

const (
	// Stratified draws one uniform per equal-probability stratum, maps it
	// through the normal quantile and shuffles the result (Latin hypercube).
	Stratified Method = iota
	// PseudoRandom draws independent normals from a seeded generator.
	PseudoRandom
)

// ErrInvalidPaths is returned for non-positive path counts.
var ErrInvalidPaths = errors.New("number of paths must be positive")

// String returns the method name accepted by ParseMethod.
func (m Method) String() string {
	switch m {
	case Stratified:
		return "stratified"
	case PseudoRandom:
		return "pseudorandom"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses "stratified" or "pseudorandom".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stratified", "lhs":
		return Stratified, nil
	case "pseudorandom", "random", "prng":
		return PseudoRandom, nil
	default:
		return 0, fmt.Errorf("unknown sampling method %q", s)
	}
}

// Config describes one sample vector.
type Config struct {
	Paths      int    // Number of samples.
	Seed       uint64 // Generator seed; equal seeds give equal samples.
	Method     Method // Sampling scheme.
	Antithetic bool   // Mirror the first half of the draws: z, -z.
}

// DefaultConfig returns 100000 stratified paths with seed 3413.
func DefaultConfig() Config {
	return Config{
		Paths:  100000,
		Seed:   3413,
		Method: Stratified,
	}
}

// Normal returns cfg.Paths standard-normal samples.
func Normal(cfg Config) ([]float64, error) {
	if cfg.Paths <= 0 {
		return nil, fmt.Errorf("sampling: %w: %d", ErrInvalidPaths, cfg.Paths)
	}

	draws := cfg.Paths
	if cfg.Antithetic {
		draws = (cfg.Paths + 1) / 2
	}

	var z []float64
	switch cfg.Method {
	case Stratified:
		z = stratified(draws, cfg.Seed)
	case PseudoRandom:
		z = pseudoRandom(draws, cfg.Seed)
	default:
		return nil, fmt.Errorf("sampling: unknown method %v", cfg.Method)
	}

	if !cfg.Antithetic {
		return z, nil
	}
	out := make([]float64, cfg.Paths)
	copy(out, z)
	for i := draws; i < cfg.Paths; i++ {
		out[i] = -z[i-draws]
	}
	return out, nil
}

func pseudoRandom(n int, seed uint64) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

func stratified(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		u := (float64(i) + rng.Float64()) / float64(n)
		if u <= 0 {
			u = 0.5 / float64(n)
		}
		out[i] = distuv.UnitNormal.Quantile(u)
	}
	rng.Shuffle(n, func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
