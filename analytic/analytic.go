// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package analytic provides closed-form Black-model prices and deltas.
//
// Caplet functions take forward, volatility, period length, payoff unit,
// maturity and strike in that order.
package analytic

import "github.com/born-ml/aadmc/internal/analytic"

// BlackDigitalOptionValue returns exp(-rT) N(d2).
func BlackDigitalOptionValue(forward, riskFreeRate, volatility, maturity, strike float64) float64 {
	return analytic.BlackDigitalOptionValue(forward, riskFreeRate, volatility, maturity, strike)
}

// BlackDigitalCapletValue returns the value of a digital caplet.
func BlackDigitalCapletValue(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	return analytic.BlackDigitalCapletValue(forward, volatility, periodLength, payoffUnit, maturity, strike)
}

// BlackDigitalCapletDelta returns the forward delta of a digital caplet.
func BlackDigitalCapletDelta(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	return analytic.BlackDigitalCapletDelta(forward, volatility, periodLength, payoffUnit, maturity, strike)
}

// BlackCapletValue returns the value of a caplet.
func BlackCapletValue(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	return analytic.BlackCapletValue(forward, volatility, periodLength, payoffUnit, maturity, strike)
}

// BlackCapletDelta returns the forward delta of a caplet.
func BlackCapletDelta(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	return analytic.BlackCapletDelta(forward, volatility, periodLength, payoffUnit, maturity, strike)
}

// ForwardRateInArrearsValue returns the value of a forward rate paid in arrears.
func ForwardRateInArrearsValue(forward, volatility, periodLength, payoffUnit, maturity float64) float64 {
	return analytic.ForwardRateInArrearsValue(forward, volatility, periodLength, payoffUnit, maturity)
}

// ForwardRateInArrearsDelta returns the forward delta of a forward rate paid in arrears.
func ForwardRateInArrearsDelta(forward, volatility, periodLength, payoffUnit, maturity float64) float64 {
	return analytic.ForwardRateInArrearsDelta(forward, volatility, periodLength, payoffUnit, maturity)
}
