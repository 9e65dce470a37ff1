package bnb

import (
	"testing"

	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnapsack(t *testing.T) {
	// values 10, 13, 7 with weights 3, 4, 2 and capacity 6: take b and c
	m := milp.NewModel("knapsack")
	a := m.AddVar("a", milp.Binary, 0, 1)
	b := m.AddVar("b", milp.Binary, 0, 1)
	c := m.AddVar("c", milp.Binary, 0, 1)
	m.AddConstr("weight", milp.Expr{{Var: a, Coeff: 3}, {Var: b, Coeff: 4}, {Var: c, Coeff: 2}}, milp.LessEqual, 6)
	obj := milp.Expr{{Var: a, Coeff: -10}, {Var: b, Coeff: -13}, {Var: c, Coeff: -7}}

	res, err := New(0, nil).SolveSingle(m, obj)
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, res.Status)
	assert.InDelta(t, -20, res.ObjVal, 1e-9)
	assert.Equal(t, []float64{0, 1, 1}, res.X)
	assert.NoError(t, m.Check(res.X, 1e-9))
	assert.Greater(t, res.Nodes, 1)
}

func TestInfeasible(t *testing.T) {
	m := milp.NewModel("infeasible")
	x := m.AddVar("x", milp.Binary, 0, 1)
	m.AddConstr("too_much", milp.Expr{{Var: x, Coeff: 1}}, milp.GreaterEqual, 2)

	res, err := New(0, nil).SolveSingle(m, milp.Expr{{Var: x, Coeff: 1}})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusInfeasible, res.Status)
	assert.Nil(t, res.X)
}

func TestEmptyRowInfeasible(t *testing.T) {
	m := milp.NewModel("empty_row")
	m.AddVar("x", milp.Binary, 0, 1)
	m.AddConstr("stops", nil, milp.GreaterEqual, 1)

	res, err := New(0, nil).SolveSingle(m, nil)
	require.NoError(t, err)
	assert.Equal(t, milp.StatusInfeasible, res.Status)
}

func TestUnbounded(t *testing.T) {
	m := milp.NewModel("unbounded")
	x := m.AddVar("x", milp.Continuous, 0, milp.Inf)
	m.AddConstr("low", milp.Expr{{Var: x, Coeff: 1}}, milp.GreaterEqual, 1)

	res, err := New(0, nil).SolveSingle(m, milp.Expr{{Var: x, Coeff: -1}})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusUnbounded, res.Status)
}

func TestFreeIntegerVariable(t *testing.T) {
	m := milp.NewModel("free")
	y := m.AddVar("y", milp.Integer, -milp.Inf, milp.Inf)
	m.AddConstr("low", milp.Expr{{Var: y, Coeff: 2}}, milp.GreaterEqual, 5)

	res, err := New(0, nil).SolveSingle(m, milp.Expr{{Var: y, Coeff: 1}})
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, res.Status)
	assert.Equal(t, []float64{3}, res.X)
	assert.InDelta(t, 3, res.ObjVal, 1e-9)
}

func TestNegativeValues(t *testing.T) {
	m := milp.NewModel("negative")
	y := m.AddVar("y", milp.Integer, -milp.Inf, milp.Inf)
	m.AddConstr("low", milp.Expr{{Var: y, Coeff: 1}}, milp.GreaterEqual, -7.5)

	res, err := New(0, nil).SolveSingle(m, milp.Expr{{Var: y, Coeff: 1}})
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, res.Status)
	assert.Equal(t, []float64{-7}, res.X)
}

func TestDependentEqualities(t *testing.T) {
	m := milp.NewModel("dependent")
	x := m.AddVar("x", milp.Integer, 0, 10)
	y := m.AddVar("y", milp.Integer, 0, 10)
	m.AddConstr("a", milp.Expr{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, milp.Equal, 2)
	m.AddConstr("b", milp.Expr{{Var: x, Coeff: 2}, {Var: y, Coeff: 2}}, milp.Equal, 4)
	m.AddConstr("c", milp.Expr{{Var: x, Coeff: -1}, {Var: y, Coeff: -1}}, milp.Equal, -2)

	res, err := New(0, nil).SolveSingle(m, milp.Expr{{Var: x, Coeff: 1}})
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, res.Status)
	assert.Equal(t, []float64{0, 2}, res.X)

	m.AddConstr("d", milp.Expr{{Var: x, Coeff: 3}, {Var: y, Coeff: 3}}, milp.Equal, 5)
	res, err = New(0, nil).SolveSingle(m, milp.Expr{{Var: x, Coeff: 1}})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusInfeasible, res.Status)
}

func TestEmptyModel(t *testing.T) {
	res, err := New(0, nil).SolveSingle(milp.NewModel("empty"), nil)
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, res.Status)
	assert.Empty(t, res.X)
	assert.Zero(t, res.ObjVal)
}

func TestNodeLimit(t *testing.T) {
	m := milp.NewModel("knapsack")
	a := m.AddVar("a", milp.Binary, 0, 1)
	b := m.AddVar("b", milp.Binary, 0, 1)
	c := m.AddVar("c", milp.Binary, 0, 1)
	m.AddConstr("weight", milp.Expr{{Var: a, Coeff: 3}, {Var: b, Coeff: 4}, {Var: c, Coeff: 2}}, milp.LessEqual, 6)
	obj := milp.Expr{{Var: a, Coeff: -10}, {Var: b, Coeff: -13}, {Var: c, Coeff: -7}}

	res, err := New(1, nil).SolveSingle(m, obj)
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOther, res.Status)
	assert.Equal(t, 1, res.Nodes)
}

func TestLexicographicOnEngine(t *testing.T) {
	// two binaries, at least one chosen; a is cheaper on the first level,
	// both tie on the second only if the first is not degraded
	m := milp.NewModel("hier")
	a := m.AddVar("a", milp.Binary, 0, 1)
	b := m.AddVar("b", milp.Binary, 0, 1)
	m.AddConstr("one", milp.Expr{{Var: a, Coeff: 1}, {Var: b, Coeff: 1}}, milp.GreaterEqual, 1)
	m.AddObjective("cost", milp.Expr{{Var: a, Coeff: 1}, {Var: b, Coeff: 2}}, 2)
	m.AddObjective("pref", milp.Expr{{Var: a, Coeff: 5}, {Var: b, Coeff: -5}}, 1)

	res, err := milp.NewLexicographic(New(0, nil), nil).Solve(m)
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, res.Status)
	assert.Equal(t, []float64{1, 0}, res.X)
	assert.InDeltaSlice(t, []float64{1, 5}, res.ObjVals, 1e-9)
}
