package randomvalue

import (
	"fmt"
	"log/slog"
	"math"
)

// Choose returns v >= 0 ? ifNonNegative : ifNegative, elementwise, with the
// step replaced by a call spread so the result can be differentiated.
//
// The spread has half-width h = HFactor * stddev(v), computed once here and
// frozen on the result for the reverse sweep. With ratio = v/h:
//
//	ratio <= -1  ->  ifNegative
//	ratio >=  1  ->  ifNonNegative
//	otherwise    ->  ratio*(a-b) + (a+b)/2
//
// A deterministic condition has h = 0 and selects without smoothing.
func (v *Value) Choose(ifNonNegative, ifNegative *Value) (*Value, error) {
	if err := v.checkOperands(ifNonNegative, ifNegative); err != nil {
		return nil, fmt.Errorf("choose: %w", err)
	}

	h := v.callSpread()
	out, err := v.tape.map3(OpChoose.String(), indicator(h), v.samples, ifNonNegative.samples, ifNegative.samples)
	if err != nil {
		return nil, err
	}

	inside := v.samplesWithin(h)
	v.tape.metrics.CallSpreadSamples(inside)
	v.tape.logger.Debug("choose",
		slog.Int64("id", v.id),
		slog.Float64("h", h),
		slog.Int("samples_in_spread", inside))

	r := v.tape.newValue(out, OpChoose, allDifferentiable(v, ifNonNegative, ifNegative), v, ifNonNegative, ifNegative)
	r.h = h
	return r, nil
}

// callSpread returns HFactor times the biased standard deviation of v.
func (v *Value) callSpread() float64 {
	return math.Sqrt(v.Variance().Float()) * v.tape.cfg.HFactor
}

// samplesWithin counts samples with |x| <= h.
func (v *Value) samplesWithin(h float64) int {
	n := 0
	for _, x := range v.samples {
		if math.Abs(x) <= h {
			n++
		}
	}
	return n
}

// indicator is the smoothed step x >= 0 ? a : b.
func indicator(h float64) Func3 {
	return func(x, a, b float64) float64 {
		ratio := x / h
		switch {
		case ratio <= -1:
			return b
		case ratio >= 1:
			return a
		default:
			return ratio*(a-b) + 0.5*(a+b)
		}
	}
}

// Partial derivatives of the call spread with respect to the condition x,
// the non-negative branch a and the negative branch b.

func indicatorDX(h float64) Func3 {
	return func(x, a, b float64) float64 {
		switch {
		case x <= -h:
			return 0
		case x <= h:
			return (a - b) / (2 * h)
		default:
			return 0
		}
	}
}

func indicatorDA(h float64) Func3 {
	return func(x, _, _ float64) float64 {
		switch {
		case x <= -h:
			return 0
		case x <= h:
			return (h + x) / (2 * h)
		default:
			return 1
		}
	}
}

func indicatorDB(h float64) Func3 {
	return func(x, _, _ float64) float64 {
		switch {
		case x <= -h:
			return 1
		case x <= h:
			return (h - x) / (2 * h)
		default:
			return 0
		}
	}
}
