package randomvalue

import "fmt"

// Func1 is an elementwise function of one sample.
type Func1 func(x float64) float64

// Func2 is an elementwise function of two samples.
type Func2 func(x, y float64) float64

// Func3 is an elementwise function of three samples.
type Func3 func(x, y, z float64) float64

// Custom1 applies f to every sample. Without a derivative the result is
// not differentiable, and neither is anything built from it.
func (v *Value) Custom1(f Func1) *Value {
	return v.tape.newValue(v.tape.map1(f, v.samples), OpCustom1, false, v)
}

// Custom1D applies f to every sample; df is its derivative, evaluated at
// the samples of v during the reverse sweep.
func (v *Value) Custom1D(f, df Func1) *Value {
	r := v.tape.newValue(v.tape.map1(f, v.samples), OpCustom1, v.differentiable && df != nil, v)
	r.hooks.d1 = df
	return r
}

// Custom2 applies f(v, y) elementwise. The result is not differentiable.
func (v *Value) Custom2(f Func2, y *Value) (*Value, error) {
	return v.custom2(f, y, nil, nil)
}

// Custom2D applies f(v, y) elementwise with partials dfx and dfy.
func (v *Value) Custom2D(f Func2, y *Value, dfx, dfy Func2) (*Value, error) {
	return v.custom2(f, y, dfx, dfy)
}

func (v *Value) custom2(f Func2, y *Value, dfx, dfy Func2) (*Value, error) {
	if err := v.checkOperands(y); err != nil {
		return nil, fmt.Errorf("%s: %w", OpCustom2, err)
	}
	out, err := v.tape.map2(OpCustom2.String(), f, v.samples, y.samples)
	if err != nil {
		return nil, err
	}
	hasHooks := dfx != nil && dfy != nil
	r := v.tape.newValue(out, OpCustom2, hasHooks && allDifferentiable(v, y), v, y)
	r.hooks.d2 = [2]Func2{dfx, dfy}
	return r, nil
}

// Custom3 applies f(v, y, z) elementwise. The result is not differentiable.
func (v *Value) Custom3(f Func3, y, z *Value) (*Value, error) {
	return v.custom3(f, y, z, nil, nil, nil)
}

// Custom3D applies f(v, y, z) elementwise with partials dfx, dfy and dfz.
func (v *Value) Custom3D(f Func3, y, z *Value, dfx, dfy, dfz Func3) (*Value, error) {
	return v.custom3(f, y, z, dfx, dfy, dfz)
}

func (v *Value) custom3(f Func3, y, z *Value, dfx, dfy, dfz Func3) (*Value, error) {
	if err := v.checkOperands(y, z); err != nil {
		return nil, fmt.Errorf("%s: %w", OpCustom3, err)
	}
	out, err := v.tape.map3(OpCustom3.String(), f, v.samples, y.samples, z.samples)
	if err != nil {
		return nil, err
	}
	hasHooks := dfx != nil && dfy != nil && dfz != nil
	r := v.tape.newValue(out, OpCustom3, hasHooks && allDifferentiable(v, y, z), v, y, z)
	r.hooks.d3 = [3]Func3{dfx, dfy, dfz}
	return r, nil
}
