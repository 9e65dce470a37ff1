// Package gurobisolver runs milp models on Gurobi. It needs a Gurobi
// installation and is only compiled with the "gurobi" build tag.
package gurobisolver
