// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package randomvalue provides Monte-Carlo sample vectors with reverse-mode
// automatic differentiation.
//
// A Value holds one sample per simulation path, or a single sample when it
// is deterministic. Arithmetic is elementwise with deterministic operands
// broadcast. Every Value is recorded on a Tape, and Derivative runs a
// reverse sweep over that tape to return the adjoint of any earlier value.
//
// Example:
//
//	import "github.com/born-ml/aadmc/randomvalue"
//
//	func main() {
//	    f := randomvalue.NewTape(randomvalue.DefaultConfig()).Factory()
//
//	    x, _ := f.FromArray([]float64{0.1, 0.5, 0.9})
//	    a := f.FromConstant(2)
//	    ax, _ := a.Mul(x)
//	    y := ax.Exp().Expectation()
//
//	    dx, _ := y.Derivative(x) // 2*exp(2x), one adjoint per path
//	    da, _ := y.Derivative(a) // E[x*exp(2x)]
//	}
//
// Choose replaces the discontinuous x >= 0 ? a : b with a call spread so
// that payoffs with digital features can be differentiated.
package randomvalue

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/aadmc/internal/metrics"
	"github.com/born-ml/aadmc/internal/parallel"
	"github.com/born-ml/aadmc/internal/randomvalue"
)

// Value is a random value: a vector of samples, one per path.
type Value = randomvalue.Value

// Factory creates leaf values on a tape.
type Factory = randomvalue.Factory

// Tape owns every value created from it and assigns their ids.
type Tape = randomvalue.Tape

// Config configures a tape.
type Config = randomvalue.Config

// ParallelConfig controls how elementwise kernels are split across goroutines.
type ParallelConfig = parallel.Config

// Metrics collects prometheus metrics for graph construction and reverse sweeps.
type Metrics = metrics.Collector

// Operation identifies how a value was computed.
type Operation = randomvalue.Operation

// Summary holds the sample statistics of a value.
type Summary = randomvalue.Summary

// Elementwise functions for custom operations.
type (
	Func1 = randomvalue.Func1
	Func2 = randomvalue.Func2
	Func3 = randomvalue.Func3
)

// ShapeError reports operands whose sample counts cannot be broadcast.
type ShapeError = randomvalue.ShapeError

// Operations.
const (
	OpNone        = randomvalue.OpNone
	OpSqrt        = randomvalue.OpSqrt
	OpExp         = randomvalue.OpExp
	OpLog         = randomvalue.OpLog
	OpSquare      = randomvalue.OpSquare
	OpAdd         = randomvalue.OpAdd
	OpSub         = randomvalue.OpSub
	OpMul         = randomvalue.OpMul
	OpDiv         = randomvalue.OpDiv
	OpChoose      = randomvalue.OpChoose
	OpCustom1     = randomvalue.OpCustom1
	OpCustom2     = randomvalue.OpCustom2
	OpCustom3     = randomvalue.OpCustom3
	OpExpectation = randomvalue.OpExpectation
)

// Errors.
var (
	ErrShapeMismatch     = randomvalue.ErrShapeMismatch
	ErrNotDifferentiable = randomvalue.ErrNotDifferentiable
	ErrForeignValue      = randomvalue.ErrForeignValue
	ErrNilValue          = randomvalue.ErrNilValue
	ErrEmptySamples      = randomvalue.ErrEmptySamples
)

// NewTape creates an empty tape.
func NewTape(cfg Config) *Tape {
	return randomvalue.NewTape(cfg)
}

// DefaultConfig returns HFactor 0.005, tolerance 1e-8 and parallel kernels
// sized to the CPU count.
func DefaultConfig() Config {
	return randomvalue.DefaultConfig()
}

// DefaultParallelConfig returns the CPU-sized parallel configuration.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig returns a parallel configuration that never spawns goroutines.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.New(reg)
}

// NewFactory returns the factory of a new tape with the default configuration.
func NewFactory() *Factory {
	return NewTape(DefaultConfig()).Factory()
}
