// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package randomvalue_test

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/aadmc/randomvalue"
)

// TestPackageExample runs the package documentation example.
func TestPackageExample(t *testing.T) {
	f := randomvalue.NewFactory()

	x, err := f.FromArray([]float64{0.1, 0.5, 0.9})
	if err != nil {
		t.Fatalf("FromArray failed: %v", err)
	}
	a := f.FromConstant(2)
	ax, err := a.Mul(x)
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	y := ax.Exp().Expectation()

	dx, err := y.Derivative(x)
	if err != nil {
		t.Fatalf("Derivative(x) failed: %v", err)
	}
	for i, g := range dx.Samples() {
		want := 2 * math.Exp(2*x.Samples()[i])
		if math.Abs(g-want) > 1e-12 {
			t.Errorf("dx[%d] = %v, want %v", i, g, want)
		}
	}

	da, err := y.Derivative(a)
	if err != nil {
		t.Fatalf("Derivative(a) failed: %v", err)
	}
	want := (0.1*math.Exp(0.2) + 0.5*math.Exp(1) + 0.9*math.Exp(1.8)) / 3
	if math.Abs(da.Float()-want) > 1e-12 {
		t.Errorf("da = %v, want %v", da.Float(), want)
	}
}

// TestConfig verifies the facade configuration helpers.
func TestConfig(t *testing.T) {
	cfg := randomvalue.DefaultConfig()
	if cfg.HFactor != 0.005 {
		t.Errorf("HFactor = %v, want 0.005", cfg.HFactor)
	}
	if cfg.Tolerance != 1e-8 {
		t.Errorf("Tolerance = %v, want 1e-8", cfg.Tolerance)
	}

	cfg.Parallel = randomvalue.SequentialConfig()
	cfg.Metrics = randomvalue.NewMetrics(prometheus.NewRegistry())
	tape := randomvalue.NewTape(cfg)

	x := tape.Factory().FromConstant(4)
	if got := x.Sqrt().Float(); got != 2 {
		t.Errorf("Sqrt() = %v, want 2", got)
	}
	if x.Op() != randomvalue.OpNone || x.Sqrt().Op() != randomvalue.OpSqrt {
		t.Errorf("unexpected operations %v, %v", x.Op(), x.Sqrt().Op())
	}
	if tape.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tape.Len())
	}
}

// TestErrors verifies sentinel errors are shared with the implementation.
func TestErrors(t *testing.T) {
	f := randomvalue.NewFactory()
	x, _ := f.FromArray([]float64{1, 2})
	y, _ := f.FromArray([]float64{1, 2, 3})

	_, err := x.Add(y)
	if !errors.Is(err, randomvalue.ErrShapeMismatch) {
		t.Errorf("Add error = %v, want ErrShapeMismatch", err)
	}
	var se *randomvalue.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("Add error %T is not a ShapeError", err)
	}

	_, err = x.Add(randomvalue.NewFactory().One())
	if !errors.Is(err, randomvalue.ErrForeignValue) {
		t.Errorf("Add error = %v, want ErrForeignValue", err)
	}

	_, err = f.FromArray(nil)
	if !errors.Is(err, randomvalue.ErrEmptySamples) {
		t.Errorf("FromArray error = %v, want ErrEmptySamples", err)
	}
}
