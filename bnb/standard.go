package bnb

import (
	"math"

	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// row is a constraint over the original variables, stored densely.
type row struct {
	coef  []float64
	sense milp.Sense
	rhs   float64
}

// problem is the preprocessed form of a model: empty rows are dropped and
// only linearly independent equality rows are kept.
type problem struct {
	nv      int
	rows    []row
	integer []int
}

func newProblem(m *milp.Model, tol float64) (*problem, bool) {
	p := &problem{nv: len(m.Vars)}
	for j, v := range m.Vars {
		if v.Type != milp.Continuous {
			p.integer = append(p.integer, j)
		}
	}

	var (
		basis  [][]float64
		pivots []int
		brhs   []float64
	)
	for _, c := range m.Constraints {
		coef := m.Dense(c.Expr)
		if isZero(coef, tol) {
			if !trivially(c.Sense, c.RHS, tol) {
				return nil, false
			}
			continue
		}
		if c.Sense == milp.Equal {
			r := append([]float64(nil), coef...)
			rhs := c.RHS
			for k, b := range basis {
				f := r[pivots[k]] / b[pivots[k]]
				if f == 0 {
					continue
				}
				for j := range r {
					r[j] -= f * b[j]
				}
				rhs -= f * brhs[k]
			}
			piv := argmaxAbs(r)
			if math.Abs(r[piv]) <= tol {
				if math.Abs(rhs) > tol*(1+math.Abs(c.RHS)) {
					return nil, false
				}
				continue
			}
			basis = append(basis, r)
			pivots = append(pivots, piv)
			brhs = append(brhs, rhs)
		}
		p.rows = append(p.rows, row{coef: coef, sense: c.Sense, rhs: c.RHS})
	}
	return p, true
}

// relaxation is the LP solution of one branch-and-bound node.
type relaxation struct {
	status milp.Status
	x      []float64
	obj    float64
}

// relax solves the LP relaxation of p with the variable bounds lb, ub.
// Every variable is shifted onto a non-negative column: x = lb + p,
// x = ub - p or, when free, x = p - q. Finite ranges become rows p + s = ub - lb.
func relax(p *problem, c, lb, ub []float64, tol float64) (relaxation, error) {
	type mapping struct {
		base     float64
		pos, neg int
	}
	vm := make([]mapping, p.nv)
	cols := 0
	bounded := 0
	for j := 0; j < p.nv; j++ {
		l, u := lb[j], ub[j]
		if l > u+tol {
			return relaxation{status: milp.StatusInfeasible}, nil
		}
		switch {
		case !math.IsInf(l, -1):
			vm[j] = mapping{base: l, pos: cols, neg: -1}
			cols++
			if !math.IsInf(u, 1) {
				bounded++
			}
		case !math.IsInf(u, 1):
			vm[j] = mapping{base: u, pos: -1, neg: cols}
			cols++
		default:
			vm[j] = mapping{pos: cols, neg: cols + 1}
			cols += 2
		}
	}
	structural := cols
	for _, r := range p.rows {
		if r.sense != milp.Equal {
			cols++
		}
	}
	cols += bounded
	m := len(p.rows) + bounded

	A := make([][]float64, m)
	b := make([]float64, m)
	slack := structural
	for i, r := range p.rows {
		A[i] = make([]float64, cols)
		b[i] = r.rhs
		for j, a := range r.coef {
			if a == 0 {
				continue
			}
			b[i] -= a * vm[j].base
			if vm[j].pos >= 0 {
				A[i][vm[j].pos] += a
			}
			if vm[j].neg >= 0 {
				A[i][vm[j].neg] -= a
			}
		}
		switch r.sense {
		case milp.LessEqual:
			A[i][slack] = 1
			slack++
		case milp.GreaterEqual:
			A[i][slack] = -1
			slack++
		}
	}
	i := len(p.rows)
	for j := 0; j < p.nv; j++ {
		if math.IsInf(lb[j], -1) || math.IsInf(ub[j], 1) {
			continue
		}
		A[i] = make([]float64, cols)
		A[i][vm[j].pos] = 1
		A[i][slack] = 1
		b[i] = math.Max(0, ub[j]-lb[j])
		slack++
		i++
	}

	cStd := make([]float64, cols)
	offset := 0.0
	for j := 0; j < p.nv; j++ {
		offset += c[j] * vm[j].base
		if vm[j].pos >= 0 {
			cStd[vm[j].pos] += c[j]
		}
		if vm[j].neg >= 0 {
			cStd[vm[j].neg] -= c[j]
		}
	}

	// Columns without a single entry stay at zero unless they improve the
	// objective without limit.
	keep := make([]int, 0, cols)
	for k := 0; k < cols; k++ {
		used := false
		for i := 0; i < m && !used; i++ {
			used = A[i][k] != 0
		}
		if used {
			keep = append(keep, k)
		} else if cStd[k] < -tol {
			return relaxation{status: milp.StatusUnbounded}, nil
		}
	}

	sol := make([]float64, cols)
	obj := offset
	if m > 0 {
		data := make([]float64, 0, m*len(keep))
		for i := 0; i < m; i++ {
			for _, k := range keep {
				data = append(data, A[i][k])
			}
		}
		cRed := make([]float64, len(keep))
		for n, k := range keep {
			cRed[n] = cStd[k]
		}
		f, xRed, err := lp.Simplex(cRed, mat.NewDense(m, len(keep), data), b, tol, nil)
		switch {
		case err == lp.ErrInfeasible:
			return relaxation{status: milp.StatusInfeasible}, nil
		case err == lp.ErrUnbounded:
			return relaxation{status: milp.StatusUnbounded}, nil
		case err != nil:
			return relaxation{status: milp.StatusOther}, errors.Wrap(err, "simplex")
		}
		for n, k := range keep {
			sol[k] = xRed[n]
		}
		obj += f
	}

	x := make([]float64, p.nv)
	for j := 0; j < p.nv; j++ {
		x[j] = vm[j].base
		if vm[j].pos >= 0 {
			x[j] += sol[vm[j].pos]
		}
		if vm[j].neg >= 0 {
			x[j] -= sol[vm[j].neg]
		}
	}
	return relaxation{status: milp.StatusOptimal, x: x, obj: obj}, nil
}

func isZero(v []float64, tol float64) bool {
	for _, a := range v {
		if math.Abs(a) > tol {
			return false
		}
	}
	return true
}

func trivially(sense milp.Sense, rhs, tol float64) bool {
	switch sense {
	case milp.LessEqual:
		return 0 <= rhs+tol
	case milp.GreaterEqual:
		return 0 >= rhs-tol
	}
	return math.Abs(rhs) <= tol
}

func argmaxAbs(v []float64) int {
	best := 0
	for j := range v {
		if math.Abs(v[j]) > math.Abs(v[best]) {
			best = j
		}
	}
	return best
}
