package randomvalue

import (
	"fmt"
	"strconv"
)

// Summary holds the sample statistics of a value.
type Summary struct {
	Mean          float64
	Variance      float64
	StandardError float64
	Samples       int
}

// String formats the summary as "[ Mean=…, Variance=…, SE=…, N=… ]".
func (s Summary) String() string {
	return fmt.Sprintf("[ Mean=%s, Variance=%s, SE=%s, N=%d ]",
		strconv.FormatFloat(s.Mean, 'g', -1, 64),
		strconv.FormatFloat(s.Variance, 'g', -1, 64),
		strconv.FormatFloat(s.StandardError, 'g', -1, 64),
		s.Samples)
}

// Expectation returns the sample mean as a deterministic value that depends
// on v, so derivatives can flow through it. The result is cached.
func (v *Value) Expectation() *Value {
	return v.expectation.get(func() *Value {
		m := v.tape.mean(v.samples)
		return v.tape.newValue([]float64{m}, OpExpectation, v.differentiable, v)
	})
}

// Variance returns E[(v - E[v])^2]. It divides by N, so deterministic values
// have exactly zero variance. The result is cached.
func (v *Value) Variance() *Value {
	return v.variance.get(func() *Value {
		centered, err := v.Sub(v.Expectation())
		if err != nil {
			panic(fmt.Sprintf("variance: %v", err))
		}
		return centered.Square().Expectation()
	})
}

// SampleError returns sqrt(Variance()) / N. The result is cached.
func (v *Value) SampleError() *Value {
	return v.sampleError.get(func() *Value {
		return v.Variance().Sqrt().DivScalar(float64(v.Len()))
	})
}

// Summary returns mean, variance, standard error and sample count.
func (v *Value) Summary() Summary {
	return Summary{
		Mean:          v.Expectation().Float(),
		Variance:      v.Variance().Float(),
		StandardError: v.SampleError().Float(),
		Samples:       v.Len(),
	}
}
