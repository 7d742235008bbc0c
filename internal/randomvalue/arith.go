package randomvalue

import (
	"fmt"
	"math"
)

func add(a, b float64) float64 { return a + b }
func sub(a, b float64) float64 { return a - b }
func mul(a, b float64) float64 { return a * b }
func div(a, b float64) float64 { return a / b }

// binary records op(v, other) with broadcasting.
func (v *Value) binary(op Operation, f Func2, other *Value) (*Value, error) {
	if err := v.checkOperands(other); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := v.tape.map2(op.String(), f, v.samples, other.samples)
	if err != nil {
		return nil, err
	}
	return v.tape.newValue(out, op, allDifferentiable(v, other), v, other), nil
}

// binaryConst records op(v, c) for a fresh constant leaf c.
func (v *Value) binaryConst(op Operation, f Func2, c float64) *Value {
	r, err := v.binary(op, f, v.tape.factory.FromConstant(c))
	if err != nil {
		// A constant on the same tape always broadcasts.
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	return r
}

// unary records op(v).
func (v *Value) unary(op Operation, f Func1) *Value {
	return v.tape.newValue(v.tape.map1(f, v.samples), op, v.differentiable, v)
}

// Add returns v + other.
func (v *Value) Add(other *Value) (*Value, error) {
	return v.binary(OpAdd, add, other)
}

// Sub returns v - other.
func (v *Value) Sub(other *Value) (*Value, error) {
	return v.binary(OpSub, sub, other)
}

// Mul returns v * other.
func (v *Value) Mul(other *Value) (*Value, error) {
	return v.binary(OpMul, mul, other)
}

// Div returns v / other.
func (v *Value) Div(other *Value) (*Value, error) {
	return v.binary(OpDiv, div, other)
}

// AddScalar returns v + c.
func (v *Value) AddScalar(c float64) *Value {
	return v.binaryConst(OpAdd, add, c)
}

// SubScalar returns v - c.
func (v *Value) SubScalar(c float64) *Value {
	return v.binaryConst(OpSub, sub, c)
}

// MulScalar returns v * c.
func (v *Value) MulScalar(c float64) *Value {
	return v.binaryConst(OpMul, mul, c)
}

// DivScalar returns v / c.
func (v *Value) DivScalar(c float64) *Value {
	return v.binaryConst(OpDiv, div, c)
}

// Square returns v * v.
func (v *Value) Square() *Value {
	return v.unary(OpSquare, func(a float64) float64 { return a * a })
}

// Sqrt returns the elementwise square root. The result is cached.
func (v *Value) Sqrt() *Value {
	return v.sqrt.get(func() *Value {
		return v.unary(OpSqrt, math.Sqrt)
	})
}

// Exp returns the elementwise exponential. The result is cached.
func (v *Value) Exp() *Value {
	return v.exp.get(func() *Value {
		return v.unary(OpExp, math.Exp)
	})
}

// Log returns the elementwise natural logarithm: -Inf at 0, NaN below.
// The result is cached.
func (v *Value) Log() *Value {
	return v.log.get(func() *Value {
		return v.unary(OpLog, math.Log)
	})
}
