package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/born-ml/aadmc/internal/analytic"
	"github.com/born-ml/aadmc/internal/randomvalue"
)

// Product identifies a priced instrument.
type Product int

const (
	DigitalCaplet Product = iota
	Caplet
	ForwardRateInArrears
)

// Products lists every supported product.
var Products = []Product{DigitalCaplet, Caplet, ForwardRateInArrears}

// ErrUnknownProduct is returned by ParseProduct.
var ErrUnknownProduct = errors.New("unknown product")

func (p Product) String() string {
	switch p {
	case DigitalCaplet:
		return "digital-caplet"
	case Caplet:
		return "caplet"
	case ForwardRateInArrears:
		return "fra-in-arrears"
	default:
		return fmt.Sprintf("Product(%d)", int(p))
	}
}

// ParseProduct parses a product name as printed by String.
func ParseProduct(s string) (Product, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Products {
		if p.String() == want {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownProduct, s)
}

// Result compares a Monte-Carlo valuation with its closed form.
type Result struct {
	Product       Product
	Model         BlackModel
	Paths         int
	HFactor       float64
	Value         float64
	Delta         float64
	AnalyticValue float64
	AnalyticDelta float64
	Elapsed       time.Duration
}

// ValueError is the Monte-Carlo value minus the analytic value.
func (r Result) ValueError() float64 {
	return r.Value - r.AnalyticValue
}

// DeltaError is the Monte-Carlo delta minus the analytic delta.
func (r Result) DeltaError() float64 {
	return r.Delta - r.AnalyticDelta
}

// Price values p under m on a fresh tape built from cfg, using one path per
// normal sample.
func Price(p Product, m BlackModel, normals []float64, cfg randomvalue.Config) (Result, error) {
	value, reference, err := p.formulas()
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	tape := randomvalue.NewTape(cfg)
	in, err := NewInputs(tape.Factory(), m, normals)
	if err != nil {
		return Result{}, err
	}
	v, err := value(in)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", p, err)
	}
	d, err := v.Derivative(in.Forward)
	if err != nil {
		return Result{}, fmt.Errorf("%s delta: %w", p, err)
	}

	av, ad := reference(m)
	return Result{
		Product:       p,
		Model:         m,
		Paths:         len(normals),
		HFactor:       tape.Config().HFactor,
		Value:         v.Float(),
		Delta:         d.Float(),
		AnalyticValue: av,
		AnalyticDelta: ad,
		Elapsed:       time.Since(start),
	}, nil
}

type valuation func(*Inputs) (*randomvalue.Value, error)

type closedForm func(BlackModel) (value, delta float64)

func (p Product) formulas() (valuation, closedForm, error) {
	switch p {
	case DigitalCaplet:
		return DigitalCapletValue, func(m BlackModel) (float64, float64) {
			return analytic.BlackDigitalCapletValue(m.Forward, m.Volatility, m.PeriodLength, m.PayoffUnit, m.Maturity, m.Strike),
				analytic.BlackDigitalCapletDelta(m.Forward, m.Volatility, m.PeriodLength, m.PayoffUnit, m.Maturity, m.Strike)
		}, nil
	case Caplet:
		return CapletValue, func(m BlackModel) (float64, float64) {
			return analytic.BlackCapletValue(m.Forward, m.Volatility, m.PeriodLength, m.PayoffUnit, m.Maturity, m.Strike),
				analytic.BlackCapletDelta(m.Forward, m.Volatility, m.PeriodLength, m.PayoffUnit, m.Maturity, m.Strike)
		}, nil
	case ForwardRateInArrears:
		return ForwardRateInArrearsValue, func(m BlackModel) (float64, float64) {
			return analytic.ForwardRateInArrearsValue(m.Forward, m.Volatility, m.PeriodLength, m.PayoffUnit, m.Maturity),
				analytic.ForwardRateInArrearsDelta(m.Forward, m.Volatility, m.PeriodLength, m.PayoffUnit, m.Maturity)
		}, nil
	default:
		return nil, nil, fmt.Errorf("pricing: %w %v", ErrUnknownProduct, p)
	}
}
