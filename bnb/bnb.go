// Package bnb is a pure Go MILP engine. It runs a depth-first
// branch-and-bound whose LP relaxations are solved by a bounded-variable
// simplex that carries its basis from node to node. gonum's simplex solves
// a node from scratch when the tableau runs into numerical trouble.
package bnb

import (
	"log/slog"
	"math"

	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

const (
	DefaultIntTol = 1e-6
	defaultLPTol  = 1e-9
)

// Engine implements milp.Engine.
type Engine struct {
	// MaxNodes stops the search after that many nodes (0 = no limit).
	// A stopped search reports milp.StatusOther.
	MaxNodes int
	IntTol   float64
	Logger   *slog.Logger
}

func New(maxNodes int, logger *slog.Logger) *Engine {
	return &Engine{MaxNodes: maxNodes, IntTol: DefaultIntTol, Logger: logger}
}

type node struct {
	lb, ub []float64
}

func (e *Engine) SolveSingle(m *milp.Model, obj milp.Expr) (*milp.Result, error) {
	if m == nil {
		return nil, errors.New("nil model")
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	intTol := e.IntTol
	if intTol <= 0 {
		intTol = DefaultIntTol
	}

	p, ok := newProblem(m, defaultLPTol)
	if !ok {
		return &milp.Result{Status: milp.StatusInfeasible}, nil
	}
	c := m.Dense(obj)
	tb := newTableau(p, c)
	integral := integralObjective(m, obj, intTol)

	root := node{lb: make([]float64, p.nv), ub: make([]float64, p.nv)}
	for j, v := range m.Vars {
		root.lb[j], root.ub[j] = v.LB, v.UB
		if v.Type != milp.Continuous {
			root.lb[j] = math.Ceil(v.LB - intTol)
			root.ub[j] = math.Floor(v.UB + intTol)
		}
	}

	var (
		stack      = []node{root}
		best       []float64
		bestObj    = math.Inf(1)
		nodes      int
		unresolved bool
	)
	for len(stack) > 0 {
		if e.MaxNodes > 0 && nodes >= e.MaxNodes {
			logger.Warn("branch-and-bound node limit reached", "nodes", nodes, "open", len(stack))
			unresolved = true
			break
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		rel, err := tb.solve(nd.lb, nd.ub)
		if err != nil {
			logger.Debug("warm simplex failed, solving the node from scratch", "node", nodes, "error", err)
			rel, err = relax(p, c, nd.lb, nd.ub, defaultLPTol)
		}
		if err != nil {
			logger.Warn("relaxation failed", "node", nodes, "error", err)
			unresolved = true
			continue
		}
		switch rel.status {
		case milp.StatusInfeasible:
			continue
		case milp.StatusUnbounded:
			return &milp.Result{Status: milp.StatusUnbounded, Nodes: nodes}, nil
		}
		if integral {
			// an integral objective cannot improve by less than one
			if math.Ceil(rel.obj-intTol) >= bestObj-intTol*math.Max(1, math.Abs(bestObj)) {
				continue
			}
		} else if rel.obj >= bestObj-defaultLPTol*math.Max(1, math.Abs(bestObj)) {
			continue
		}

		j := mostFractional(rel.x, p.integer, intTol)
		if j < 0 {
			best = roundIntegers(rel.x, p.integer)
			bestObj = milp.Evaluate(obj, best)
			continue
		}

		fl := math.Floor(rel.x[j])
		down := node{lb: nd.lb, ub: append([]float64(nil), nd.ub...)}
		down.ub[j] = fl
		up := node{lb: append([]float64(nil), nd.lb...), ub: nd.ub}
		up.lb[j] = fl + 1
		// the branch closer to the relaxed value is explored first
		if rel.x[j]-fl < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	res := &milp.Result{Nodes: nodes}
	switch {
	case best == nil && unresolved:
		res.Status = milp.StatusOther
	case best == nil:
		res.Status = milp.StatusInfeasible
	case unresolved:
		res.Status = milp.StatusOther
		res.X = best
		res.ObjVal = milp.Evaluate(obj, best)
	default:
		res.Status = milp.StatusOptimal
		res.X = best
		res.ObjVal = milp.Evaluate(obj, best)
	}
	return res, nil
}

// integralObjective reports whether obj takes integral values on every
// integral assignment: only integer columns with integer coefficients.
func integralObjective(m *milp.Model, obj milp.Expr, tol float64) bool {
	for _, t := range obj {
		if t.Coeff == 0 {
			continue
		}
		if m.Vars[t.Var].Type == milp.Continuous || math.Abs(t.Coeff-math.Round(t.Coeff)) > tol {
			return false
		}
	}
	return true
}

func mostFractional(x []float64, integer []int, tol float64) int {
	best, bestFrac := -1, tol
	for _, j := range integer {
		f := math.Abs(x[j] - math.Round(x[j]))
		if f > bestFrac {
			best, bestFrac = j, f
		}
	}
	return best
}

func roundIntegers(x []float64, integer []int) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for _, j := range integer {
		out[j] = math.Round(out[j])
	}
	return out
}
