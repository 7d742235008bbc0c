// Package pricing values interest rate products in the Black model by
// Monte-Carlo simulation on random values, with deltas from the reverse sweep.
package pricing

import (
	"fmt"

	"github.com/born-ml/aadmc/internal/randomvalue"
)

// BlackModel holds model and product parameters as plain numbers.
type BlackModel struct {
	Forward      float64 // Forward rate L(0) for the period.
	PayoffUnit   float64 // Discount factor to the payment date.
	Volatility   float64 // Lognormal volatility of the forward.
	Strike       float64 // Caplet strike rate.
	Maturity     float64 // Fixing time T.
	PeriodLength float64 // Accrual period.
}

// DefaultBlackModel returns the reference caplet setup: F = 5%, P = 0.9,
// sigma = 30%, K = 6%, T = 2, period 0.5.
func DefaultBlackModel() BlackModel {
	return BlackModel{
		Forward:      0.05,
		PayoffUnit:   0.9,
		Volatility:   0.3,
		Strike:       0.06,
		Maturity:     2.0,
		PeriodLength: 0.5,
	}
}

// Validate checks that the parameters describe a lognormal model.
func (m BlackModel) Validate() error {
	switch {
	case m.Forward <= 0:
		return fmt.Errorf("pricing: forward must be positive, got %g", m.Forward)
	case m.Volatility < 0:
		return fmt.Errorf("pricing: volatility must not be negative, got %g", m.Volatility)
	case m.Maturity <= 0:
		return fmt.Errorf("pricing: maturity must be positive, got %g", m.Maturity)
	case m.PeriodLength <= 0:
		return fmt.Errorf("pricing: period length must be positive, got %g", m.PeriodLength)
	}
	return nil
}

// Inputs are the model and product parameters as random values on one tape.
// Every field except BrownianIncrement is deterministic.
type Inputs struct {
	Forward           *randomvalue.Value
	PayoffUnit        *randomvalue.Value
	Volatility        *randomvalue.Value
	BrownianIncrement *randomvalue.Value // W(T), normals scaled by sqrt(T).
	Strike            *randomvalue.Value
	Maturity          *randomvalue.Value
	PeriodLength      *randomvalue.Value
}

// NewInputs creates the inputs for m on the factory's tape. normals are
// standard normal samples, one per path.
func NewInputs(f *randomvalue.Factory, m BlackModel, normals []float64) (*Inputs, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	normal, err := f.FromArray(normals)
	if err != nil {
		return nil, fmt.Errorf("pricing: normals: %w", err)
	}

	in := &Inputs{
		Forward:      f.FromConstant(m.Forward),
		PayoffUnit:   f.FromConstant(m.PayoffUnit),
		Volatility:   f.FromConstant(m.Volatility),
		Strike:       f.FromConstant(m.Strike),
		Maturity:     f.FromConstant(m.Maturity),
		PeriodLength: f.FromConstant(m.PeriodLength),
	}
	in.BrownianIncrement, err = normal.Mul(in.Maturity.Sqrt())
	if err != nil {
		return nil, fmt.Errorf("pricing: brownian increment: %w", err)
	}
	return in, nil
}

// ForwardAtMaturity returns L(T) = L(0) exp(sigma W(T) - sigma^2 T / 2).
func (in *Inputs) ForwardAtMaturity() (*randomvalue.Value, error) {
	diffusion, err := in.BrownianIncrement.Mul(in.Volatility)
	if err != nil {
		return nil, err
	}
	drift, err := in.Volatility.Square().MulScalar(0.5).Mul(in.Maturity)
	if err != nil {
		return nil, err
	}
	exponent, err := diffusion.Sub(drift)
	if err != nil {
		return nil, err
	}
	return exponent.Exp().Mul(in.Forward)
}

// DigitalCapletValue returns E[P * period * 1{L(T) >= K}].
func DigitalCapletValue(in *Inputs) (*randomvalue.Value, error) {
	forward, err := in.ForwardAtMaturity()
	if err != nil {
		return nil, fmt.Errorf("digital caplet: %w", err)
	}
	condition, err := forward.Sub(in.Strike)
	if err != nil {
		return nil, fmt.Errorf("digital caplet: %w", err)
	}
	payment, err := in.PayoffUnit.Mul(in.PeriodLength)
	if err != nil {
		return nil, fmt.Errorf("digital caplet: %w", err)
	}
	payoff, err := condition.Choose(payment, forward.Factory().Zero())
	if err != nil {
		return nil, fmt.Errorf("digital caplet: %w", err)
	}
	return payoff.Expectation(), nil
}

// DigitalCapletDelta returns the derivative of DigitalCapletValue with
// respect to the initial forward.
func DigitalCapletDelta(in *Inputs) (*randomvalue.Value, error) {
	return delta(DigitalCapletValue, in)
}

// CapletValue returns E[P * period * max(L(T) - K, 0)].
func CapletValue(in *Inputs) (*randomvalue.Value, error) {
	forward, err := in.ForwardAtMaturity()
	if err != nil {
		return nil, fmt.Errorf("caplet: %w", err)
	}
	exercise, err := forward.Sub(in.Strike)
	if err != nil {
		return nil, fmt.Errorf("caplet: %w", err)
	}
	positive, err := exercise.Choose(exercise, forward.Factory().Zero())
	if err != nil {
		return nil, fmt.Errorf("caplet: %w", err)
	}
	payoff, err := positive.Mul(in.PeriodLength)
	if err != nil {
		return nil, fmt.Errorf("caplet: %w", err)
	}
	value, err := payoff.Mul(in.PayoffUnit)
	if err != nil {
		return nil, fmt.Errorf("caplet: %w", err)
	}
	return value.Expectation(), nil
}

// CapletDelta returns the derivative of CapletValue with respect to the
// initial forward.
func CapletDelta(in *Inputs) (*randomvalue.Value, error) {
	return delta(CapletValue, in)
}

// ForwardRateInArrearsValue returns E[P * period * L(T) * (1 + period * L(T))],
// the value at the payment date of a rate fixed and paid at T.
func ForwardRateInArrearsValue(in *Inputs) (*randomvalue.Value, error) {
	forward, err := in.ForwardAtMaturity()
	if err != nil {
		return nil, fmt.Errorf("forward rate in arrears: %w", err)
	}
	accrued, err := forward.Mul(in.PeriodLength)
	if err != nil {
		return nil, fmt.Errorf("forward rate in arrears: %w", err)
	}
	payoff, err := accrued.Mul(accrued.AddScalar(1))
	if err != nil {
		return nil, fmt.Errorf("forward rate in arrears: %w", err)
	}
	value, err := payoff.Mul(in.PayoffUnit)
	if err != nil {
		return nil, fmt.Errorf("forward rate in arrears: %w", err)
	}
	return value.Expectation(), nil
}

// ForwardRateInArrearsDelta returns the derivative of
// ForwardRateInArrearsValue with respect to the initial forward.
func ForwardRateInArrearsDelta(in *Inputs) (*randomvalue.Value, error) {
	return delta(ForwardRateInArrearsValue, in)
}

func delta(value func(*Inputs) (*randomvalue.Value, error), in *Inputs) (*randomvalue.Value, error) {
	v, err := value(in)
	if err != nil {
		return nil, err
	}
	return v.Derivative(in.Forward)
}
