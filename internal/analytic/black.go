// Package analytic implements closed-form Black-model prices used as
// references for the Monte-Carlo valuations.
//
// Arguments follow one order throughout: forward, volatility, period length,
// payoff unit (discount factor to the payment date), maturity, strike.
package analytic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// d2 returns the Black d2 term; d1 = d2 + sigma*sqrt(T).
func d2(forward, drift, volatility, maturity, strike float64) float64 {
	sd := volatility * math.Sqrt(maturity)
	return (math.Log(forward/strike) + (drift-0.5*volatility*volatility)*maturity) / sd
}

// degenerate reports whether the lognormal has no spread and the option
// pays its intrinsic value.
func degenerate(volatility, maturity float64) bool {
	return volatility <= 0 || maturity <= 0
}

// BlackDigitalOptionValue returns exp(-rT) N(d2), the value of a cash-or-nothing
// call paying 1 if the underlying ends above strike.
func BlackDigitalOptionValue(forward, riskFreeRate, volatility, maturity, strike float64) float64 {
	if maturity < 0 {
		return 0
	}
	discount := math.Exp(-riskFreeRate * maturity)
	if degenerate(volatility, maturity) || strike <= 0 {
		if forward*math.Exp(riskFreeRate*maturity) > strike {
			return discount
		}
		return 0
	}
	return discount * distuv.UnitNormal.CDF(d2(forward, riskFreeRate, volatility, maturity, strike))
}

// BlackDigitalCapletValue returns P*delta*N(d2) for a caplet paying
// periodLength at the payment date if the rate fixes above strike.
func BlackDigitalCapletValue(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	return BlackDigitalOptionValue(forward, 0, volatility, maturity, strike) * payoffUnit * periodLength
}

// BlackDigitalCapletDelta returns the sensitivity of BlackDigitalCapletValue
// to the forward: P*delta*phi(d2) / (F sigma sqrt(T)).
func BlackDigitalCapletDelta(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	if degenerate(volatility, maturity) || forward <= 0 || strike <= 0 {
		return 0
	}
	sd := volatility * math.Sqrt(maturity)
	density := distuv.UnitNormal.Prob(d2(forward, 0, volatility, maturity, strike))
	return periodLength * payoffUnit * density / (forward * sd)
}

// BlackCapletValue returns P*delta*(F N(d1) - K N(d2)).
func BlackCapletValue(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	if degenerate(volatility, maturity) || forward <= 0 || strike <= 0 {
		return payoffUnit * periodLength * math.Max(forward-strike, 0)
	}
	dm := d2(forward, 0, volatility, maturity, strike)
	dp := dm + volatility*math.Sqrt(maturity)
	n := distuv.UnitNormal
	return payoffUnit * periodLength * (forward*n.CDF(dp) - strike*n.CDF(dm))
}

// BlackCapletDelta returns P*delta*N(d1).
func BlackCapletDelta(forward, volatility, periodLength, payoffUnit, maturity, strike float64) float64 {
	if degenerate(volatility, maturity) || forward <= 0 || strike <= 0 {
		if forward > strike {
			return payoffUnit * periodLength
		}
		return 0
	}
	dp := d2(forward, 0, volatility, maturity, strike) + volatility*math.Sqrt(maturity)
	return payoffUnit * periodLength * distuv.UnitNormal.CDF(dp)
}

// ForwardRateInArrearsValue returns the value of delta*L(T)*(1 + delta*L(T))
// paid at T + delta under a lognormal L:
//
//	P * (delta*F + delta^2 * F^2 * exp(sigma^2 T))
func ForwardRateInArrearsValue(forward, volatility, periodLength, payoffUnit, maturity float64) float64 {
	convexity := math.Exp(volatility * volatility * maturity)
	return payoffUnit * (periodLength*forward + periodLength*periodLength*forward*forward*convexity)
}

// ForwardRateInArrearsDelta is the derivative of ForwardRateInArrearsValue
// with respect to the forward.
func ForwardRateInArrearsDelta(forward, volatility, periodLength, payoffUnit, maturity float64) float64 {
	convexity := math.Exp(volatility * volatility * maturity)
	return payoffUnit * (periodLength + 2*periodLength*periodLength*forward*convexity)
}
