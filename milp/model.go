// Package milp holds a solver-neutral mixed-integer linear model and the
// contracts used to hand it to an optimization engine.
package milp

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// VarType mirrors the variable types known to the engines.
type VarType int8

const (
	Continuous VarType = iota
	Integer
	Binary
)

func (t VarType) String() string {
	switch t {
	case Continuous:
		return "CONTINUOUS"
	case Integer:
		return "INTEGER"
	case Binary:
		return "BINARY"
	}
	return fmt.Sprintf("VarType(%d)", int8(t))
}

// Sense of a linear constraint.
type Sense int8

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	}
	return fmt.Sprintf("Sense(%d)", int8(s))
}

// Inf is used for missing bounds.
var Inf = math.Inf(1)

type Var struct {
	Name string
	Type VarType
	LB   float64
	UB   float64
}

// Term is one coefficient of a linear expression.
type Term struct {
	Var   int
	Coeff float64
}

// Expr is a sparse linear expression. Repeated variables are summed.
type Expr []Term

type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

// Objective is minimized. Higher Priority values are optimized first.
type Objective struct {
	Name     string
	Expr     Expr
	Priority int
}

// Model is an ordered collection of variables, constraints and objectives.
// Variables are referenced by the index returned from AddVar.
type Model struct {
	Name        string
	Vars        []Var
	Constraints []Constraint
	Objectives  []Objective
}

func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVar appends a variable and returns its index. Binary variables
// always get the bounds [0,1].
func (m *Model) AddVar(name string, vtype VarType, lb, ub float64) int {
	if vtype == Binary {
		lb, ub = 0, 1
	}
	m.Vars = append(m.Vars, Var{Name: name, Type: vtype, LB: lb, UB: ub})
	return len(m.Vars) - 1
}

func (m *Model) AddConstr(name string, expr Expr, sense Sense, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Expr: expr, Sense: sense, RHS: rhs})
}

func (m *Model) AddObjective(name string, expr Expr, priority int) {
	m.Objectives = append(m.Objectives, Objective{Name: name, Expr: expr, Priority: priority})
}

// NumVars returns the number of variables of the given type.
func (m *Model) NumVars(vtype VarType) int {
	n := 0
	for _, v := range m.Vars {
		if v.Type == vtype {
			n++
		}
	}
	return n
}

// Dense returns the expression as a dense coefficient vector over all variables.
func (m *Model) Dense(expr Expr) []float64 {
	c := make([]float64, len(m.Vars))
	for _, t := range expr {
		c[t.Var] += t.Coeff
	}
	return c
}

// Evaluate computes the value of expr under assignment x.
func Evaluate(expr Expr, x []float64) float64 {
	sum := 0.0
	for _, t := range expr {
		sum += t.Coeff * x[t.Var]
	}
	return sum
}

// Check reports the first bound, integrality or constraint violation of x
// larger than tol.
func (m *Model) Check(x []float64, tol float64) error {
	if len(x) != len(m.Vars) {
		return errors.Errorf("assignment has %d values, model has %d variables", len(x), len(m.Vars))
	}
	for i, v := range m.Vars {
		if x[i] < v.LB-tol || x[i] > v.UB+tol {
			return errors.Errorf("%s = %g violates bounds [%g,%g]", v.Name, x[i], v.LB, v.UB)
		}
		if v.Type != Continuous && math.Abs(x[i]-math.Round(x[i])) > tol {
			return errors.Errorf("%s = %g is not integral", v.Name, x[i])
		}
	}
	for _, c := range m.Constraints {
		lhs := Evaluate(c.Expr, x)
		ok := true
		switch c.Sense {
		case LessEqual:
			ok = lhs <= c.RHS+tol
		case GreaterEqual:
			ok = lhs >= c.RHS-tol
		case Equal:
			ok = math.Abs(lhs-c.RHS) <= tol
		}
		if !ok {
			return errors.Errorf("%s violated: %g %s %g", c.Name, lhs, c.Sense, c.RHS)
		}
	}
	return nil
}

func (m *Model) String() string {
	return fmt.Sprintf("%s: %d vars (%d binary, %d integer), %d constraints, %d objectives",
		m.Name, len(m.Vars), m.NumVars(Binary), m.NumVars(Integer), len(m.Constraints), len(m.Objectives))
}
