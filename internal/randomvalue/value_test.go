package randomvalue_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/aadmc/internal/metrics"
	"github.com/born-ml/aadmc/internal/randomvalue"
)

func newTape() *randomvalue.Tape {
	return randomvalue.NewTape(randomvalue.DefaultConfig())
}

func fromArray(t *testing.T, f *randomvalue.Factory, xs ...float64) *randomvalue.Value {
	t.Helper()
	v, err := f.FromArray(xs)
	require.NoError(t, err)
	return v
}

func TestFactory_Leaves(t *testing.T) {
	tape := newTape()
	f := tape.Factory()

	a := fromArray(t, f, 1, 2, 3)
	c := f.FromConstant(2.5)
	z := f.Zero()
	o := f.One()

	assert.Equal(t, int64(1), a.ID())
	assert.Equal(t, int64(2), c.ID())
	assert.Equal(t, int64(3), z.ID())
	assert.Equal(t, int64(4), o.ID())
	assert.Equal(t, 4, tape.Len())

	for _, v := range []*randomvalue.Value{a, c, z, o} {
		assert.Equal(t, randomvalue.OpNone, v.Op())
		assert.True(t, v.IsDifferentiable())
	}
	assert.Equal(t, 2.5, c.Float())
	assert.Equal(t, 0.0, z.Float())
	assert.Equal(t, 1.0, o.Float())
	assert.Same(t, f, a.Factory())
}

func TestFactory_CopiesInput(t *testing.T) {
	f := newTape().Factory()
	raw := []float64{1, 2, 3}
	v := fromArray(t, f, raw...)

	raw[0] = 100
	assert.Equal(t, []float64{1, 2, 3}, v.Samples())

	out := v.Samples()
	out[1] = 100
	assert.Equal(t, []float64{1, 2, 3}, v.Samples())
}

func TestFactory_Empty(t *testing.T) {
	_, err := newTape().Factory().FromArray(nil)
	assert.True(t, errors.Is(err, randomvalue.ErrEmptySamples))
}

func TestTape_IdsAreReproducible(t *testing.T) {
	build := func() []int64 {
		f := newTape().Factory()
		x := f.FromConstant(2)
		y := x.Exp()
		z, err := y.Mul(x)
		require.NoError(t, err)
		return []int64{x.ID(), y.ID(), z.ID()}
	}
	assert.Equal(t, build(), build())
	assert.Equal(t, []int64{1, 2, 3}, build())
}

func TestValue_DeterministicCollapse(t *testing.T) {
	f := newTape().Factory()

	v := fromArray(t, f, 3.0, 3.0+1e-9, 3.0-5e-9, 3.0)
	assert.True(t, v.IsDeterministic())
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, 3.0, v.Float())
	assert.Equal(t, 3.0, v.Expectation().Float())
	assert.Equal(t, 0.0, v.Variance().Float())
	assert.Equal(t, 0.0, v.SampleError().Float())

	w := fromArray(t, f, 3.0, 3.1)
	assert.False(t, w.IsDeterministic())
	assert.True(t, math.IsNaN(w.Float()))
}

func TestValue_CollapseAfterArithmetic(t *testing.T) {
	f := newTape().Factory()
	x := fromArray(t, f, 1, 2, 3)

	zero, err := x.Sub(x)
	require.NoError(t, err)
	assert.True(t, zero.IsDeterministic())
	assert.Equal(t, 0.0, zero.Float())
}

func TestValue_Broadcast(t *testing.T) {
	f := newTape().Factory()
	v := []float64{-1.5, 0, 2, 10}
	c := 0.25

	sum, err := f.FromConstant(c).Add(fromArray(t, f, v...))
	require.NoError(t, err)

	want := make([]float64, len(v))
	for i := range v {
		want[i] = c + v[i]
	}
	assert.Equal(t, want, sum.Samples())

	// Operand order does not matter for broadcasting.
	diff, err := fromArray(t, f, v...).Sub(f.FromConstant(c))
	require.NoError(t, err)
	for i, s := range diff.Samples() {
		assert.Equal(t, v[i]-c, s)
	}
}

func TestValue_ShapeMismatch(t *testing.T) {
	tape := newTape()
	f := tape.Factory()
	a := fromArray(t, f, 1, 2, 3)
	b := fromArray(t, f, 1, 2, 3, 4)
	before := tape.Len()

	_, err := a.Mul(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, randomvalue.ErrShapeMismatch))

	var shapeErr *randomvalue.ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "mul", shapeErr.Op)
	assert.Equal(t, []int{3, 4}, shapeErr.Lengths)
	assert.Contains(t, err.Error(), "[3 4]")
	assert.Equal(t, before, tape.Len(), "failed operation must not record a node")

	_, err = a.Choose(b, f.Zero())
	assert.True(t, errors.Is(err, randomvalue.ErrShapeMismatch))

	_, err = a.Custom2(math.Max, b)
	assert.True(t, errors.Is(err, randomvalue.ErrShapeMismatch))
}

func TestValue_OperandMisuse(t *testing.T) {
	a := newTape().Factory().FromConstant(1)
	other := newTape().Factory().FromConstant(2)

	_, err := a.Add(other)
	assert.True(t, errors.Is(err, randomvalue.ErrForeignValue))

	_, err = a.Choose(other, a)
	assert.True(t, errors.Is(err, randomvalue.ErrForeignValue))

	_, err = a.Choose(nil, a)
	assert.True(t, errors.Is(err, randomvalue.ErrNilValue))

	_, err = a.Div(nil)
	assert.True(t, errors.Is(err, randomvalue.ErrNilValue))

	_, err = a.Derivative(nil)
	assert.True(t, errors.Is(err, randomvalue.ErrNilValue))
}

func TestValue_Arithmetic(t *testing.T) {
	f := newTape().Factory()
	x := fromArray(t, f, 1, 4, 9)
	y := fromArray(t, f, 2, 2, 3)

	tests := []struct {
		name string
		got  func() (*randomvalue.Value, error)
		want []float64
		op   randomvalue.Operation
	}{
		{"add", func() (*randomvalue.Value, error) { return x.Add(y) }, []float64{3, 6, 12}, randomvalue.OpAdd},
		{"sub", func() (*randomvalue.Value, error) { return x.Sub(y) }, []float64{-1, 2, 6}, randomvalue.OpSub},
		{"mul", func() (*randomvalue.Value, error) { return x.Mul(y) }, []float64{2, 8, 27}, randomvalue.OpMul},
		{"div", func() (*randomvalue.Value, error) { return x.Div(y) }, []float64{0.5, 2, 3}, randomvalue.OpDiv},
		{"add scalar", func() (*randomvalue.Value, error) { return x.AddScalar(1), nil }, []float64{2, 5, 10}, randomvalue.OpAdd},
		{"sub scalar", func() (*randomvalue.Value, error) { return x.SubScalar(1), nil }, []float64{0, 3, 8}, randomvalue.OpSub},
		{"mul scalar", func() (*randomvalue.Value, error) { return x.MulScalar(2), nil }, []float64{2, 8, 18}, randomvalue.OpMul},
		{"div scalar", func() (*randomvalue.Value, error) { return x.DivScalar(2), nil }, []float64{0.5, 2, 4.5}, randomvalue.OpDiv},
		{"square", func() (*randomvalue.Value, error) { return x.Square(), nil }, []float64{1, 16, 81}, randomvalue.OpSquare},
		{"sqrt", func() (*randomvalue.Value, error) { return x.Sqrt(), nil }, []float64{1, 2, 3}, randomvalue.OpSqrt},
		{"exp", func() (*randomvalue.Value, error) { return y.Exp(), nil }, []float64{math.Exp(2), math.Exp(2), math.Exp(3)}, randomvalue.OpExp},
		{"log", func() (*randomvalue.Value, error) { return x.Log(), nil }, []float64{0, math.Log(4), math.Log(9)}, randomvalue.OpLog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.got()
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, v.Samples(), 1e-12)
			assert.Equal(t, tt.op, v.Op())
			assert.True(t, v.IsDifferentiable())
		})
	}
}

func TestValue_LogDomain(t *testing.T) {
	f := newTape().Factory()
	v := fromArray(t, f, 0, -1, math.E).Log().Samples()
	assert.True(t, math.IsInf(v[0], -1))
	assert.True(t, math.IsNaN(v[1]))
	assert.InDelta(t, 1.0, v[2], 1e-15)
}

func TestValue_UnaryMemoized(t *testing.T) {
	tape := newTape()
	x := fromArray(t, tape.Factory(), 1, 2, 3)

	assert.Same(t, x.Sqrt(), x.Sqrt())
	assert.Same(t, x.Exp(), x.Exp())
	assert.Same(t, x.Log(), x.Log())

	n := tape.Len()
	x.Sqrt()
	x.Exp()
	x.Log()
	assert.Equal(t, n, tape.Len())
}

func TestValue_Statistics(t *testing.T) {
	f := newTape().Factory()
	x := fromArray(t, f, 1, 2, 3, 4)

	e := x.Expectation()
	assert.Equal(t, 2.5, e.Float())
	assert.Equal(t, randomvalue.OpExpectation, e.Op())
	assert.True(t, e.IsDeterministic())

	// Biased: divides by N.
	assert.InDelta(t, 1.25, x.Variance().Float(), 1e-15)
	assert.InDelta(t, math.Sqrt(1.25)/4, x.SampleError().Float(), 1e-15)

	s := x.Summary()
	assert.Equal(t, 4, s.Samples)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, "[ Mean=2.5, Variance=1.25, SE="+strconv.FormatFloat(math.Sqrt(1.25)/4, 'g', -1, 64)+", N=4 ]", s.String())
	assert.Equal(t, s.String(), x.String())
	assert.Equal(t, "2.5", e.String())
}

func TestValue_StatisticsMemoized(t *testing.T) {
	tape := newTape()
	x := fromArray(t, tape.Factory(), 0.5, 1.5, -2, 7)

	e1, v1, s1 := x.Expectation(), x.Variance(), x.SampleError()
	n := tape.Len()
	e2, v2, s2 := x.Expectation(), x.Variance(), x.SampleError()

	assert.Same(t, e1, e2)
	assert.Same(t, v1, v2)
	assert.Same(t, s1, s2)
	assert.Equal(t, math.Float64bits(e1.Float()), math.Float64bits(e2.Float()))
	assert.Equal(t, n, tape.Len(), "second call must not compute again")
}

func TestValue_ConcurrentStatistics(t *testing.T) {
	tape := newTape()
	xs := make([]float64, 20000)
	for i := range xs {
		xs[i] = float64(i % 17)
	}
	x := fromArray(t, tape.Factory(), xs...)

	const workers = 16
	got := make([]*randomvalue.Value, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = x.Variance()
			got[i] = x.Expectation()
			_, _ = x.AddScalar(float64(i)).Mul(x)
		}(i)
	}
	wg.Wait()

	for _, g := range got {
		assert.Same(t, got[0], g)
	}

	assert.Greater(t, tape.Len(), workers*2)
}

func TestValue_WithMetricsAndLogger(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer

	cfg := randomvalue.DefaultConfig()
	cfg.Metrics = metrics.New(reg)
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tape := randomvalue.NewTape(cfg)
	f := tape.Factory()

	x := fromArray(t, f, -2, -1, 0, 1, 2)
	y, err := x.Choose(f.One(), f.Zero())
	require.NoError(t, err)
	_, err = y.Expectation().Derivative(x)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	out := buf.String()
	assert.True(t, strings.Contains(out, "samples_in_spread="), out)
	assert.True(t, strings.Contains(out, "reverse sweep"), out)
	assert.True(t, strings.Contains(out, "component=randomvalue"), out)

	var sweeps float64
	for _, mf := range families {
		if mf.GetName() == "aadmc_sweeps_total" {
			sweeps = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, sweeps)
}
