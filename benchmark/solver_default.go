//go:build !gurobi

package main

import (
	"log/slog"

	"git.solver4all.com/azaryc2s/trainroute/bnb"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

const defaultSolver = SolverBnB

func newEngine(name string, maxNodes int, solverOutput bool, logger *slog.Logger) (milp.Engine, func(), error) {
	switch name {
	case SolverBnB:
		return bnb.New(maxNodes, logger), func() {}, nil
	case SolverGurobi:
		return nil, nil, errors.New("built without Gurobi support, rebuild with -tags gurobi")
	}
	return nil, nil, errors.Errorf("unsupported solver: %s", name)
}
