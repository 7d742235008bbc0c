package randomvalue

import "github.com/born-ml/aadmc/internal/parallel"

// broadcastLen returns the common sample count of the operands.
//
// Deterministic operands (length 1) broadcast against stochastic ones;
// stochastic operands must all have the same length.
//
//	[1] + [1]    -> 1
//	[1] + [n]    -> n
//	[n] + [n]    -> n
//	[n] + [m]    -> ShapeError
func broadcastLen(op string, lens ...int) (int, error) {
	n := 1
	for _, l := range lens {
		switch {
		case l == 0:
			return 0, &ShapeError{Op: op, Lengths: lens}
		case l == 1:
		case n == 1:
			n = l
		case l != n:
			return 0, &ShapeError{Op: op, Lengths: lens}
		}
	}
	return n, nil
}

// stride is 0 for broadcast operands, 1 otherwise.
func stride(s []float64) int {
	if len(s) == 1 {
		return 0
	}
	return 1
}

// map1 applies f to every sample of x.
func (t *Tape) map1(f Func1, x []float64) []float64 {
	out := make([]float64, len(x))
	parallel.For(len(x), t.cfg.Parallel, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = f(x[i])
		}
	})
	return out
}

// map2 applies f pairwise with broadcasting.
func (t *Tape) map2(op string, f Func2, x, y []float64) ([]float64, error) {
	n, err := broadcastLen(op, len(x), len(y))
	if err != nil {
		return nil, err
	}
	sx, sy := stride(x), stride(y)

	out := make([]float64, n)
	parallel.For(n, t.cfg.Parallel, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = f(x[i*sx], y[i*sy])
		}
	})
	return out, nil
}

// map3 applies f to matching samples of three operands with broadcasting.
func (t *Tape) map3(op string, f Func3, x, y, z []float64) ([]float64, error) {
	n, err := broadcastLen(op, len(x), len(y), len(z))
	if err != nil {
		return nil, err
	}
	sx, sy, sz := stride(x), stride(y), stride(z)

	out := make([]float64, n)
	parallel.For(n, t.cfg.Parallel, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = f(x[i*sx], y[i*sy], z[i*sz])
		}
	})
	return out, nil
}

// mean returns the arithmetic mean of samples.
func (t *Tape) mean(samples []float64) float64 {
	return parallel.Sum(samples, t.cfg.Parallel) / float64(len(samples))
}
