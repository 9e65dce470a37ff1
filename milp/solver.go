package milp

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Status is the outcome of a solve.
type Status int

const (
	StatusOther Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	}
	return "OTHER"
}

// Result of a solve. X is only set when a feasible assignment is known.
type Result struct {
	Status Status
	X      []float64
	ObjVal float64
	// ObjVals holds the optimal value of every objective level that was
	// solved to optimality, highest priority first.
	ObjVals []float64
	Nodes   int
}

// Solver accepts a fully built model and runs the optimization.
// A returned error means the engine itself failed; an infeasible or
// unbounded model is reported through Result.Status.
type Solver interface {
	Solve(m *Model) (*Result, error)
}

// Engine minimizes a single objective over the constraints of m.
type Engine interface {
	SolveSingle(m *Model, obj Expr) (*Result, error)
}

// DefaultHierarchyTol is the relative slack granted to an already
// optimized objective while lower priority ones are solved.
const DefaultHierarchyTol = 1e-6

// Lexicographic solves the objectives of a model in priority order. After
// each level the constraint obj <= optimum is appended so that lower
// priorities only break ties.
type Lexicographic struct {
	Engine Engine
	Tol    float64
	Logger *slog.Logger
}

func NewLexicographic(engine Engine, logger *slog.Logger) *Lexicographic {
	return &Lexicographic{Engine: engine, Tol: DefaultHierarchyTol, Logger: logger}
}

func (l *Lexicographic) Solve(m *Model) (*Result, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	objs := make([]Objective, len(m.Objectives))
	copy(objs, m.Objectives)
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Priority > objs[j].Priority })
	if len(objs) == 0 {
		objs = append(objs, Objective{Name: "Feasibility"})
	}

	work := *m
	work.Constraints = append([]Constraint(nil), m.Constraints...)

	var (
		res    *Result
		values []float64
		nodes  int
	)
	for k, obj := range objs {
		r, err := l.Engine.SolveSingle(&work, obj.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "objective %s", obj.Name)
		}
		nodes += r.Nodes
		res = r
		logger.Debug("objective level solved", "objective", obj.Name, "priority", obj.Priority,
			"status", r.Status.String(), "value", r.ObjVal, "nodes", r.Nodes)
		if r.Status != StatusOptimal {
			break
		}
		values = append(values, r.ObjVal)
		if k < len(objs)-1 {
			slack := l.Tol * math.Max(1, math.Abs(r.ObjVal))
			work.AddConstr(fmt.Sprintf("Hierarchy_%s", obj.Name), obj.Expr, LessEqual, r.ObjVal+slack)
		}
	}
	res.ObjVals = values
	res.Nodes = nodes
	return res, nil
}
