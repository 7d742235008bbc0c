// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pricing values interest rate products in the Black model by
// Monte-Carlo simulation, with deltas from the reverse sweep.
//
// Example:
//
//	normals, _ := sampling.Normal(sampling.DefaultConfig())
//	r, err := pricing.Price(pricing.DigitalCaplet, pricing.DefaultBlackModel(), normals, randomvalue.DefaultConfig())
//	fmt.Println(r.Value, r.AnalyticValue, r.Delta, r.AnalyticDelta)
package pricing

import (
	"github.com/born-ml/aadmc/internal/pricing"
	"github.com/born-ml/aadmc/internal/randomvalue"
)

// BlackModel holds model and product parameters.
type BlackModel = pricing.BlackModel

// Inputs are the model and product parameters as random values.
type Inputs = pricing.Inputs

// Product identifies a priced instrument.
type Product = pricing.Product

// Result compares a Monte-Carlo valuation with its closed form.
type Result = pricing.Result

// Products.
const (
	DigitalCaplet        = pricing.DigitalCaplet
	Caplet               = pricing.Caplet
	ForwardRateInArrears = pricing.ForwardRateInArrears
)

// ErrUnknownProduct is returned for unsupported products.
var ErrUnknownProduct = pricing.ErrUnknownProduct

// DefaultBlackModel returns the reference caplet parameters.
func DefaultBlackModel() BlackModel {
	return pricing.DefaultBlackModel()
}

// NewInputs creates the inputs for m on the factory's tape.
func NewInputs(f *randomvalue.Factory, m BlackModel, normals []float64) (*Inputs, error) {
	return pricing.NewInputs(f, m, normals)
}

// Price values p under m with one path per normal sample.
func Price(p Product, m BlackModel, normals []float64, cfg randomvalue.Config) (Result, error) {
	return pricing.Price(p, m, normals, cfg)
}

// ParseProduct parses a product name.
func ParseProduct(s string) (Product, error) {
	return pricing.ParseProduct(s)
}

// DigitalCapletValue returns the Monte-Carlo value of a digital caplet.
func DigitalCapletValue(in *Inputs) (*randomvalue.Value, error) {
	return pricing.DigitalCapletValue(in)
}

// DigitalCapletDelta returns the forward delta of a digital caplet.
func DigitalCapletDelta(in *Inputs) (*randomvalue.Value, error) {
	return pricing.DigitalCapletDelta(in)
}

// CapletValue returns the Monte-Carlo value of a caplet.
func CapletValue(in *Inputs) (*randomvalue.Value, error) {
	return pricing.CapletValue(in)
}

// CapletDelta returns the forward delta of a caplet.
func CapletDelta(in *Inputs) (*randomvalue.Value, error) {
	return pricing.CapletDelta(in)
}

// ForwardRateInArrearsValue returns the Monte-Carlo value of a forward rate paid in arrears.
func ForwardRateInArrearsValue(in *Inputs) (*randomvalue.Value, error) {
	return pricing.ForwardRateInArrearsValue(in)
}

// ForwardRateInArrearsDelta returns the forward delta of a forward rate paid in arrears.
func ForwardRateInArrearsDelta(in *Inputs) (*randomvalue.Value, error) {
	return pricing.ForwardRateInArrearsDelta(in)
}
