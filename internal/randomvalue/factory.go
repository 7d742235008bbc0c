package randomvalue

// Factory builds leaf values on a tape. It is the only way to create leaves.
type Factory struct {
	tape *Tape
}

// FromArray creates a differentiable leaf holding a copy of samples.
func (f *Factory) FromArray(samples []float64) (*Value, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySamples
	}
	own := make([]float64, len(samples))
	copy(own, samples)
	return f.tape.newValue(own, OpNone, true), nil
}

// FromConstant creates a deterministic differentiable leaf.
func (f *Factory) FromConstant(c float64) *Value {
	return f.tape.newValue([]float64{c}, OpNone, true)
}

// Zero returns a new constant 0.
func (f *Factory) Zero() *Value {
	return f.FromConstant(0)
}

// One returns a new constant 1.
func (f *Factory) One() *Value {
	return f.FromConstant(1)
}

// adjointLeaf wraps adjoint samples as a value without gradient support.
func (f *Factory) adjointLeaf(samples []float64) *Value {
	return f.tape.newValue(samples, OpNone, false)
}
