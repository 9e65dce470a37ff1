//go:build gurobi

package main

import (
	"log/slog"

	"git.solver4all.com/azaryc2s/trainroute/bnb"
	"git.solver4all.com/azaryc2s/trainroute/gurobisolver"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

const defaultSolver = SolverGurobi

func newEngine(name string, maxNodes int, solverOutput bool, logger *slog.Logger) (milp.Engine, func(), error) {
	switch name {
	case SolverBnB:
		return bnb.New(maxNodes, logger), func() {}, nil
	case SolverGurobi:
		engine, err := gurobisolver.New("trainroute.log", solverOutput, logger)
		if err != nil {
			return nil, nil, err
		}
		return engine, engine.Close, nil
	}
	return nil, nil, errors.Errorf("unsupported solver: %s", name)
}
