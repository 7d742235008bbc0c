// Package randomvalue implements Monte-Carlo sample vectors with reverse-mode
// automatic differentiation.
//
// A Value holds the samples of one stochastic quantity, or a single sample
// when the quantity is deterministic. Arithmetic on values records each result
// as a node on a Tape. Derivative runs one reverse sweep over the nodes that
// produced a value and answers adjoint queries from the cached result.
//
// Supported operations and their local derivatives:
//   - Add, Sub, Mul, Div: the usual partials, broadcast over samples
//   - Square, Sqrt, Exp, Log: elementwise chain rule
//   - Expectation: pushes the mean of the downstream adjoint
//   - Choose: call-spread smoothing of x >= 0 ? a : b
//   - Custom1D, Custom2D, Custom3D: caller supplied partials
package randomvalue

import "fmt"

// Operation identifies how a value was produced.
type Operation uint8

// Operations recorded on the tape. OpNone marks leaves.
const (
	OpNone Operation = iota
	OpSqrt
	OpExp
	OpLog
	OpSquare
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpChoose
	OpCustom1
	OpCustom2
	OpCustom3
	OpExpectation
)

var opNames = [...]string{
	OpNone:        "none",
	OpSqrt:        "sqrt",
	OpExp:         "exp",
	OpLog:         "log",
	OpSquare:      "square",
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpDiv:         "div",
	OpChoose:      "choose",
	OpCustom1:     "custom1",
	OpCustom2:     "custom2",
	OpCustom3:     "custom3",
	OpExpectation: "expectation",
}

// String returns the lower-case operation name.
func (o Operation) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Operation(%d)", uint8(o))
}

// Arity returns the number of operands the operation consumes.
func (o Operation) Arity() int {
	switch o {
	case OpNone:
		return 0
	case OpSqrt, OpExp, OpLog, OpSquare, OpCustom1, OpExpectation:
		return 1
	case OpAdd, OpSub, OpMul, OpDiv, OpCustom2:
		return 2
	case OpChoose, OpCustom3:
		return 3
	default:
		return -1
	}
}
