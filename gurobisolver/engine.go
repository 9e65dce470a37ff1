//go:build gurobi

/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */
/* Copyright 2021, Gurobi Optimization, LLC */

package gurobisolver

import (
	"log/slog"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

/* Gurobi constants the binding does not export */
const (
	grbInfinity      = 1e100
	grbInteger  int8 = 'I'

	statusInfeasible = 3
	statusUnbounded  = 5
)

// Engine implements milp.Engine on top of one Gurobi environment.
type Engine struct {
	env    *gurobi.Env
	logger *slog.Logger
}

// New loads a Gurobi environment logging to logFile. Console logging is
// only enabled when consoleOutput is set.
func New(logFile string, consoleOutput bool, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	env, err := gurobi.LoadEnv(logFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading gurobi environment")
	}
	console := int32(0)
	if consoleOutput {
		console = 1
	}
	if err = env.SetIntParam("LogToConsole", console); err != nil {
		env.Free()
		return nil, errors.Wrap(err, "setting LogToConsole")
	}
	threads, _ := env.GetIntParam(gurobi.INT_PAR_THREADS)
	logger.Info("gurobi environment loaded", "logfile", logFile, "threads", threads)
	return &Engine{env: env, logger: logger}, nil
}

func (e *Engine) Close() {
	e.env.Free()
}

func (e *Engine) SolveSingle(m *milp.Model, obj milp.Expr) (*milp.Result, error) {
	model, err := e.env.NewModel(m.Name, 0, nil, nil, nil, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating model")
	}
	defer model.Free()

	c := m.Dense(obj)
	for j, v := range m.Vars {
		err = model.AddVar(nil, nil, c[j], bound(v.LB), bound(v.UB), vtype(v.Type), v.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "adding variable %s", v.Name)
		}
	}

	err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE)
	if err != nil {
		return nil, errors.Wrap(err, "setting model sense")
	}

	for _, con := range m.Constraints {
		ind := make([]int32, len(con.Expr))
		val := make([]float64, len(con.Expr))
		for k, t := range con.Expr {
			ind[k] = int32(t.Var)
			val[k] = t.Coeff
		}
		err = model.AddConstr(ind, val, sense(con.Sense), con.RHS, con.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "adding constraint %s", con.Name)
		}
	}

	if err = model.Optimize(); err != nil {
		return nil, errors.Wrap(err, "optimizing")
	}

	optimstatus, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return nil, errors.Wrap(err, "capturing optimization status")
	}

	res := &milp.Result{}
	switch optimstatus {
	case gurobi.OPTIMAL:
		res.Status = milp.StatusOptimal
	case statusInfeasible, gurobi.INF_OR_UNBD:
		res.Status = milp.StatusInfeasible
	case statusUnbounded:
		res.Status = milp.StatusUnbounded
	default:
		e.logger.Debug("gurobi stopped without proof of optimality", "status", optimstatus)
		res.Status = milp.StatusOther
	}
	if res.Status != milp.StatusOptimal {
		return res, nil
	}

	res.ObjVal, err = model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		return nil, errors.Wrap(err, "retrieving the obj-value")
	}
	if len(m.Vars) > 0 {
		res.X, err = model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(len(m.Vars)))
		if err != nil {
			return nil, errors.Wrap(err, "retrieving the decision variables")
		}
	} else {
		res.X = []float64{}
	}
	return res, nil
}

func bound(b float64) float64 {
	if b > grbInfinity {
		return grbInfinity
	}
	if b < -grbInfinity {
		return -grbInfinity
	}
	return b
}

func vtype(t milp.VarType) int8 {
	switch t {
	case milp.Binary:
		return gurobi.BINARY
	case milp.Integer:
		return grbInteger
	}
	return gurobi.CONTINUOUS
}

func sense(s milp.Sense) int8 {
	switch s {
	case milp.LessEqual:
		return gurobi.LESS_EQUAL
	case milp.GreaterEqual:
		return gurobi.GREATER_EQUAL
	}
	return gurobi.EQUAL
}
