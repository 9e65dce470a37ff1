package bnb

import (
	"math"

	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

const (
	feasTol = 1e-7
	optTol  = 1e-9
	pivTol  = 1e-9
	tieTol  = 1e-12

	// pivots after which the tableau is rebuilt from the original rows
	refactorEvery = 100
	// consecutive degenerate steps before switching to Bland's rule
	blandAfter = 50
)

var errIterationLimit = errors.New("simplex iteration limit reached")

// tableau is a dense bounded-variable primal simplex over the columns
// [A I]: one column per variable followed by one logical column per row.
// Row i reads a_i x + s_i = b_i, so the bounds of s_i encode the sense of
// the row and variable bounds never become rows. The basis survives bound
// changes; a node starts from the optimum of the node solved before it.
type tableau struct {
	m, n int // rows, variables
	// orig holds [A I b], t holds B^-1 [A I b]
	orig, t [][]float64
	c       []float64
	lb, ub  []float64
	x       []float64
	basis   []int // basic column of every row
	row     []int // row of a basic column, -1 if nonbasic
	pivots  int

	cb, d []float64
}

func newTableau(p *problem, c []float64) *tableau {
	m, n := len(p.rows), p.nv
	w := n + m + 1
	tb := &tableau{
		m:     m,
		n:     n,
		orig:  make([][]float64, m),
		t:     make([][]float64, m),
		c:     make([]float64, n+m),
		lb:    make([]float64, n+m),
		ub:    make([]float64, n+m),
		x:     make([]float64, n+m),
		basis: make([]int, m),
		row:   make([]int, n+m),
		cb:    make([]float64, m),
		d:     make([]float64, n+m),
	}
	copy(tb.c, c)
	for i, r := range p.rows {
		tb.orig[i] = make([]float64, w)
		copy(tb.orig[i], r.coef)
		tb.orig[i][n+i] = 1
		tb.orig[i][w-1] = r.rhs
		tb.t[i] = make([]float64, w)

		s := n + i
		switch r.sense {
		case milp.LessEqual:
			tb.lb[s], tb.ub[s] = 0, math.Inf(1)
		case milp.GreaterEqual:
			tb.lb[s], tb.ub[s] = math.Inf(-1), 0
		}
	}
	tb.reset()
	return tb
}

// reset restores the all-logical basis.
func (tb *tableau) reset() {
	for i := range tb.t {
		copy(tb.t[i], tb.orig[i])
		tb.basis[i] = tb.n + i
	}
	for j := range tb.row {
		tb.row[j] = -1
	}
	for i := range tb.basis {
		tb.row[tb.n+i] = i
	}
	tb.pivots = 0
}

// refactor rebuilds B^-1 [A I b] for the current basis from the original
// rows, dropping the rounding errors of past pivots. A basis that turned
// out singular is replaced by the logical one.
func (tb *tableau) refactor() {
	target := make([]int, len(tb.basis))
	copy(target, tb.basis)
	inTarget := make([]bool, len(tb.row))
	for _, j := range target {
		inTarget[j] = true
	}
	tb.reset()
	for _, j := range target {
		if j >= tb.n {
			continue
		}
		r, best := -1, pivTol
		for i, k := range tb.basis {
			if k < tb.n || inTarget[k] {
				continue
			}
			if v := math.Abs(tb.t[i][j]); v > best {
				r, best = i, v
			}
		}
		if r < 0 {
			tb.reset()
			return
		}
		tb.pivot(r, j)
	}
	tb.pivots = 0
}

func (tb *tableau) pivot(r, j int) {
	pr := tb.t[r]
	floats.Scale(1/pr[j], pr)
	pr[j] = 1
	for i, ri := range tb.t {
		if i == r {
			continue
		}
		if f := ri[j]; f != 0 {
			floats.AddScaled(ri, -f, pr)
			ri[j] = 0
		}
	}
	tb.row[tb.basis[r]] = -1
	tb.basis[r] = j
	tb.row[j] = r
	tb.pivots++
}

// place puts a nonbasic column on one of its bounds, the nearest one when
// its value lies outside the current range.
func (tb *tableau) place(j int) {
	l, u, v := tb.lb[j], tb.ub[j], tb.x[j]
	switch {
	case v == l || v == u:
	case !math.IsInf(l, -1) && (math.IsInf(u, 1) || math.Abs(v-l) <= math.Abs(v-u)):
		tb.x[j] = l
	case !math.IsInf(u, 1):
		tb.x[j] = u
	default:
		tb.x[j] = 0
	}
}

// computeBasics derives the basic values from the nonbasic ones.
func (tb *tableau) computeBasics() {
	var moved []int
	for j, r := range tb.row {
		if r < 0 && tb.x[j] != 0 {
			moved = append(moved, j)
		}
	}
	last := tb.n + tb.m
	for i, ti := range tb.t {
		v := ti[last]
		for _, j := range moved {
			v -= ti[j] * tb.x[j]
		}
		tb.x[tb.basis[i]] = v
	}
}

// solve solves the relaxation under the variable bounds lb, ub.
func (tb *tableau) solve(lb, ub []float64) (relaxation, error) {
	for j := 0; j < tb.n; j++ {
		if lb[j] > ub[j]+feasTol {
			return relaxation{status: milp.StatusInfeasible}, nil
		}
	}
	copy(tb.lb, lb[:tb.n])
	copy(tb.ub, ub[:tb.n])
	if tb.pivots >= refactorEvery {
		tb.refactor()
	}
	for j, r := range tb.row {
		if r < 0 {
			tb.place(j)
		}
	}
	tb.computeBasics()

	status, err := tb.iterate(50*(tb.m+tb.n) + 1000)
	if err != nil {
		// start the next node from a clean factorization
		tb.pivots = refactorEvery
		return relaxation{status: milp.StatusOther}, err
	}
	if status != milp.StatusOptimal {
		return relaxation{status: status}, nil
	}
	x := make([]float64, tb.n)
	copy(x, tb.x[:tb.n])
	return relaxation{status: status, x: x, obj: floats.Dot(tb.c[:tb.n], x)}, nil
}

func ftol(b float64) float64 {
	return feasTol * (1 + math.Abs(b))
}

// iterate runs the primal simplex from the current basis. While a basic
// value violates its bounds the sum of infeasibilities is minimized,
// afterwards the objective.
func (tb *tableau) iterate(maxIter int) (milp.Status, error) {
	var (
		degenerate int
		fresh      = true
		cols       = tb.n + tb.m
	)
	for iter := 0; iter < maxIter; iter++ {
		infeasible := false
		for i, k := range tb.basis {
			v := tb.x[k]
			switch {
			case v < tb.lb[k]-ftol(tb.lb[k]):
				tb.cb[i] = -1
				infeasible = true
			case v > tb.ub[k]+ftol(tb.ub[k]):
				tb.cb[i] = 1
				infeasible = true
			default:
				tb.cb[i] = 0
			}
		}
		if infeasible {
			for j := range tb.d {
				tb.d[j] = 0
			}
		} else {
			copy(tb.d, tb.c)
			for i, k := range tb.basis {
				tb.cb[i] = tb.c[k]
			}
		}
		for i, ti := range tb.t {
			if tb.cb[i] != 0 {
				floats.AddScaled(tb.d, -tb.cb[i], ti[:cols])
			}
		}

		bland := degenerate > blandAfter
		enter, dir, best := -1, 0.0, optTol
		for j := 0; j < cols; j++ {
			if tb.row[j] >= 0 || tb.lb[j] == tb.ub[j] {
				continue
			}
			dj := tb.d[j]
			var s float64
			switch {
			case dj < -optTol && tb.x[j] < tb.ub[j]:
				s = 1
			case dj > optTol && tb.x[j] > tb.lb[j]:
				s = -1
			default:
				continue
			}
			if bland {
				enter, dir = j, s
				break
			}
			if math.Abs(dj) > best {
				enter, dir, best = j, s, math.Abs(dj)
			}
		}
		if enter < 0 {
			if !fresh {
				tb.computeBasics()
				fresh = true
				continue
			}
			if infeasible {
				return milp.StatusInfeasible, nil
			}
			return milp.StatusOptimal, nil
		}

		theta, leave, leaveAt, bestPiv := math.Inf(1), -1, 0.0, 0.0
		if !math.IsInf(tb.lb[enter], -1) && !math.IsInf(tb.ub[enter], 1) {
			theta = tb.ub[enter] - tb.lb[enter]
		}
		for i, ti := range tb.t {
			a := ti[enter] * dir
			if math.Abs(a) <= pivTol {
				continue
			}
			k := tb.basis[i]
			v, l, u := tb.x[k], tb.lb[k], tb.ub[k]
			var lim, bound float64
			if a > 0 {
				switch {
				case v > u+ftol(u):
					lim, bound = (v-u)/a, u
				case !math.IsInf(l, -1) && v >= l-ftol(l):
					lim, bound = (v-l)/a, l
				default:
					continue
				}
			} else {
				switch {
				case v < l-ftol(l):
					lim, bound = (l-v)/-a, l
				case !math.IsInf(u, 1) && v <= u+ftol(u):
					lim, bound = (u-v)/-a, u
				default:
					continue
				}
			}
			if lim < 0 {
				lim = 0
			}
			switch {
			case lim < theta-tieTol:
			case lim <= theta+tieTol && leave >= 0 &&
				(bland && k < tb.basis[leave] || !bland && math.Abs(a) > bestPiv):
			default:
				continue
			}
			theta, leave, leaveAt, bestPiv = lim, i, bound, math.Abs(a)
		}

		if math.IsInf(theta, 1) {
			if infeasible {
				return milp.StatusOther, errors.New("unbounded ray while minimizing infeasibility")
			}
			return milp.StatusUnbounded, nil
		}
		if theta <= tieTol {
			degenerate++
		} else {
			degenerate = 0
			for i, ti := range tb.t {
				if a := ti[enter]; a != 0 {
					tb.x[tb.basis[i]] -= a * dir * theta
				}
			}
			tb.x[enter] += dir * theta
		}
		fresh = false

		if leave < 0 {
			if dir > 0 {
				tb.x[enter] = tb.ub[enter]
			} else {
				tb.x[enter] = tb.lb[enter]
			}
			continue
		}
		tb.x[tb.basis[leave]] = leaveAt
		tb.pivot(leave, enter)
	}
	return milp.StatusOther, errIterationLimit
}
