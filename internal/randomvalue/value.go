package randomvalue

import (
	"math"
	"strconv"
	"sync"
)

var nanH = math.NaN()

// Value is a Monte-Carlo sample vector recorded on a Tape.
//
// A value is immutable after construction. Derived statistics and the
// adjoint table are computed on first use and cached.
type Value struct {
	tape           *Tape
	id             int64
	samples        []float64 // length 1 iff deterministic
	op             Operation
	deps           []int64
	differentiable bool

	h     float64 // call spread half-width, Choose only
	hooks hooks   // analytic partials of custom operations

	expectation memo
	variance    memo
	sampleError memo
	sqrt        memo
	exp         memo
	log         memo

	sweepOnce sync.Once
	grads     map[int64][]float64
}

// hooks holds the partial derivatives of a custom operation, one per operand.
type hooks struct {
	d1 Func1
	d2 [2]Func2
	d3 [3]Func3
}

// memo caches one derived value. Concurrent callers block until the first
// computation finishes and then share its result.
type memo struct {
	once sync.Once
	v    *Value
}

func (m *memo) get(compute func() *Value) *Value {
	m.once.Do(func() { m.v = compute() })
	return m.v
}

// ID returns the creation-order id of v on its tape.
func (v *Value) ID() int64 {
	return v.id
}

// Tape returns the tape v is recorded on.
func (v *Value) Tape() *Tape {
	return v.tape
}

// Factory returns the factory of v's tape.
func (v *Value) Factory() *Factory {
	return v.tape.factory
}

// Op returns the operation that produced v.
func (v *Value) Op() Operation {
	return v.op
}

// Len returns the number of samples, 1 for deterministic values.
func (v *Value) Len() int {
	return len(v.samples)
}

// IsDeterministic reports whether v collapsed to a single sample.
func (v *Value) IsDeterministic() bool {
	return len(v.samples) == 1
}

// IsDifferentiable reports whether derivatives of v can be requested.
func (v *Value) IsDifferentiable() bool {
	return v.differentiable
}

// CallSpread returns the half-width h frozen on a Choose result, NaN otherwise.
func (v *Value) CallSpread() float64 {
	return v.h
}

// Samples returns a copy of the sample vector.
func (v *Value) Samples() []float64 {
	out := make([]float64, len(v.samples))
	copy(out, v.samples)
	return out
}

// Float returns the value of a deterministic v, NaN if v is stochastic.
func (v *Value) Float() float64 {
	if v.IsDeterministic() {
		return v.samples[0]
	}
	return math.NaN()
}

// String formats deterministic values as a number and stochastic ones
// as their summary statistics.
func (v *Value) String() string {
	if v.IsDeterministic() {
		return strconv.FormatFloat(v.samples[0], 'g', -1, 64)
	}
	return v.Summary().String()
}

// checkOperands validates operands against v for a multi-operand operation.
func (v *Value) checkOperands(operands ...*Value) error {
	for _, o := range operands {
		if o == nil {
			return ErrNilValue
		}
		if o.tape != v.tape {
			return ErrForeignValue
		}
	}
	return nil
}

// allDifferentiable reports whether every value is differentiable.
func allDifferentiable(values ...*Value) bool {
	for _, x := range values {
		if !x.differentiable {
			return false
		}
	}
	return true
}
