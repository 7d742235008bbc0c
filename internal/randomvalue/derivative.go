package randomvalue

import (
	"container/heap"
	"fmt"
	"log/slog"
	"time"
)

// Derivative returns the adjoint of x in the graph that produced v.
//
// If both values are deterministic the result is the ordinary derivative;
// otherwise it is the sample-by-sample adjoint vector. A value that did not
// take part in building v yields 0. The result is a leaf without gradient
// support of its own.
//
// The reverse sweep runs once per value; later queries reuse its adjoints.
func (v *Value) Derivative(x *Value) (*Value, error) {
	if x == nil {
		return nil, fmt.Errorf("derivative: %w", ErrNilValue)
	}
	if !v.differentiable {
		return nil, fmt.Errorf("derivative of value %d: %w", v.id, ErrNotDifferentiable)
	}

	f := v.tape.factory
	if x.tape != v.tape {
		return f.adjointLeaf([]float64{0}), nil
	}

	adj, ok := v.adjoints()[x.id]
	if !ok {
		return f.adjointLeaf([]float64{0}), nil
	}
	if x.IsDeterministic() && v.IsDeterministic() {
		return f.adjointLeaf([]float64{v.tape.mean(adj)}), nil
	}
	out := make([]float64, len(adj))
	copy(out, adj)
	return f.adjointLeaf(out), nil
}

// adjoints runs the reverse sweep on first use and returns the adjoint of
// every node reachable from v, keyed by id.
func (v *Value) adjoints() map[int64][]float64 {
	v.sweepOnce.Do(func() {
		v.grads = v.backward()
	})
	return v.grads
}

// backward seeds v with 1 and visits nodes in strictly decreasing id order.
//
// Operands always have smaller ids than their results, so when a node is
// popped every consumer of it has already pushed its contribution and the
// node's adjoint is complete.
func (v *Value) backward() map[int64][]float64 {
	start := time.Now()
	s := &sweep{
		tape:  v.tape,
		grads: map[int64][]float64{v.id: {1}},
	}

	queue := newWorklist()
	queue.push(v.id)
	visited := 0
	for queue.Len() > 0 {
		node := v.tape.node(queue.pop())
		s.propagate(node)
		visited++
		for _, d := range node.deps {
			queue.push(d)
		}
	}

	elapsed := time.Since(start)
	v.tape.metrics.SweepFinished(visited, elapsed)
	v.tape.logger.Debug("reverse sweep",
		slog.Int64("root", v.id),
		slog.Int("nodes", visited),
		slog.Duration("elapsed", elapsed))
	return s.grads
}

// sweep accumulates adjoints for one reverse pass. Adjoint arithmetic works
// on raw sample slices and records nothing on the tape.
type sweep struct {
	tape  *Tape
	grads map[int64][]float64
}

var minusOne = []float64{-1}

// propagate pushes the adjoint of node into its operands.
func (s *sweep) propagate(node *Value) {
	adj, ok := s.grads[node.id]
	if !ok {
		return
	}
	deps := make([]*Value, len(node.deps))
	for i, id := range node.deps {
		deps[i] = s.tape.node(id)
	}

	switch node.op {
	case OpNone:
	case OpAdd:
		s.accumulate(deps[0].id, adj)
		s.accumulate(deps[1].id, adj)
	case OpSub:
		s.accumulate(deps[0].id, adj)
		s.push(deps[1].id, adj, minusOne)
	case OpMul:
		x, y := deps[0], deps[1]
		s.push(x.id, adj, y.samples)
		s.push(y.id, adj, x.samples)
	case OpDiv:
		x, y := deps[0], deps[1]
		s.push(x.id, adj, s.tape.map1(func(b float64) float64 { return 1 / b }, y.samples))
		s.push(y.id, adj, s.vec2(func(a, b float64) float64 { return -a / (b * b) }, x.samples, y.samples))
	case OpSquare:
		x := deps[0]
		s.push(x.id, adj, s.tape.map1(func(a float64) float64 { return 2 * a }, x.samples))
	case OpSqrt:
		s.push(deps[0].id, adj, s.tape.map1(func(z float64) float64 { return 0.5 / z }, node.samples))
	case OpExp:
		s.push(deps[0].id, adj, node.samples)
	case OpLog:
		x := deps[0]
		s.push(x.id, adj, s.tape.map1(func(a float64) float64 { return 1 / a }, x.samples))
	case OpExpectation:
		// The operand receives the mean of the downstream adjoint, not adj/N
		// per sample; expectations taken later average it back.
		s.accumulate(deps[0].id, []float64{s.tape.mean(adj)})
	case OpChoose:
		x, a, b := deps[0], deps[1], deps[2]
		h := node.h
		s.push(x.id, adj, s.vec3(indicatorDX(h), x.samples, a.samples, b.samples))
		s.push(a.id, adj, s.vec3(indicatorDA(h), x.samples, a.samples, b.samples))
		s.push(b.id, adj, s.vec3(indicatorDB(h), x.samples, a.samples, b.samples))
	case OpCustom1:
		x := deps[0]
		s.push(x.id, adj, s.tape.map1(node.hooks.d1, x.samples))
	case OpCustom2:
		x, y := deps[0], deps[1]
		for i, d := range node.hooks.d2 {
			s.push(deps[i].id, adj, s.vec2(d, x.samples, y.samples))
		}
	case OpCustom3:
		x, y, z := deps[0], deps[1], deps[2]
		for i, d := range node.hooks.d3 {
			s.push(deps[i].id, adj, s.vec3(d, x.samples, y.samples, z.samples))
		}
	default:
		panic(fmt.Sprintf("reverse sweep: unknown operation %v", node.op))
	}
}

// push adds adj * local to the adjoint of dep.
func (s *sweep) push(dep int64, adj, local []float64) {
	s.accumulate(dep, s.vec2(mul, adj, local))
}

// accumulate adds contribution to the adjoint of dep.
func (s *sweep) accumulate(dep int64, contribution []float64) {
	if prev, ok := s.grads[dep]; ok {
		contribution = s.vec2(add, prev, contribution)
	}
	s.grads[dep] = s.tape.collapse(contribution)
}

// vec2 and vec3 broadcast adjoint arithmetic. Every stochastic value in one
// graph has the same length, so a mismatch here is a bug.
func (s *sweep) vec2(f Func2, x, y []float64) []float64 {
	out, err := s.tape.map2("adjoint", f, x, y)
	if err != nil {
		panic(fmt.Sprintf("reverse sweep: %v", err))
	}
	return out
}

func (s *sweep) vec3(f Func3, x, y, z []float64) []float64 {
	out, err := s.tape.map3("adjoint", f, x, y, z)
	if err != nil {
		panic(fmt.Sprintf("reverse sweep: %v", err))
	}
	return out
}

// worklist is a max-priority queue of node ids. An id is queued at most once.
type worklist struct {
	ids  idHeap
	seen map[int64]struct{}
}

func newWorklist() *worklist {
	return &worklist{seen: make(map[int64]struct{})}
}

func (w *worklist) Len() int {
	return w.ids.Len()
}

func (w *worklist) push(id int64) {
	if _, ok := w.seen[id]; ok {
		return
	}
	w.seen[id] = struct{}{}
	heap.Push(&w.ids, id)
}

// pop removes and returns the largest queued id.
func (w *worklist) pop() int64 {
	return heap.Pop(&w.ids).(int64)
}

// idHeap implements heap.Interface with the largest id on top.
type idHeap []int64

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] > h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	*h = append(*h, x.(int64))
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
