package randomvalue

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch     = errors.New("operand lengths cannot be broadcast")
	ErrNotDifferentiable = errors.New("value is not differentiable")
	ErrForeignValue      = errors.New("operand belongs to a different tape")
	ErrNilValue          = errors.New("nil operand")
	ErrEmptySamples      = errors.New("empty sample array")
)

// ShapeError reports operands whose lengths cannot be broadcast together.
type ShapeError struct {
	Op      string // Operation that rejected the operands
	Lengths []int  // Sample count of every operand, in call order
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: cannot broadcast operand lengths %v", e.Op, e.Lengths)
}

// Unwrap makes errors.Is(err, ErrShapeMismatch) hold.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
