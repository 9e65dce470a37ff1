package trainroute

import (
	"fmt"

	"git.solver4all.com/azaryc2s/trainroute/milp"
)

const (
	PriorityTravelTime = 4
	PriorityDelays     = 3
)

// RoutingModel is the MILP of one instance together with the variable
// indices needed to decode an assignment.
type RoutingModel struct {
	*milp.Model

	Routes []Route
	// X[r][t] is the index of the binary "train t uses route r".
	X [][]int
	// Y[t] is the index of the integer delay of train t.
	Y []int

	// CapacityRoutes is the effective length of the capacity-constrained prefix.
	CapacityRoutes int
	MinStops       int
}

// BuildModel encodes inst with capacity constraints on the first numRoutes
// routes and at least minStops selected routes per train. The objectives
// are total travel time first, total delay second.
func BuildModel(inst *Instance, numRoutes, minStops int) *RoutingModel {
	m := milp.NewModel("train_routing")
	routes := Routes(inst.Stations)
	trains := inst.Trains

	rm := &RoutingModel{Model: m, Routes: routes, MinStops: minStops}

	/* Decision variables */
	rm.X = make([][]int, len(routes))
	for r, route := range routes {
		rm.X[r] = make([]int, trains)
		for t := 0; t < trains; t++ {
			rm.X[r][t] = m.AddVar(fmt.Sprintf("x_%d_%d_%s", route.From, route.To, TrainName(t)), milp.Binary, 0, 1)
		}
	}
	rm.Y = make([]int, trains)
	for t := 0; t < trains; t++ {
		rm.Y[t] = m.AddVar(fmt.Sprintf("y_%s", TrainName(t)), milp.Integer, -milp.Inf, milp.Inf)
	}

	/* Objectives */
	var travel milp.Expr
	for r, route := range routes {
		for t := 0; t < trains; t++ {
			travel = append(travel, milp.Term{Var: rm.X[r][t], Coeff: float64(inst.TravelTimes[route.From][route.To])})
		}
	}
	m.AddObjective("TotalTravelTime", travel, PriorityTravelTime)

	var delays milp.Expr
	for t := 0; t < trains; t++ {
		delays = append(delays, milp.Term{Var: rm.Y[t], Coeff: 1})
	}
	m.AddObjective("TotalDelays", delays, PriorityDelays)

	/* Flow conservation: what enters a station leaves it */
	for t := 0; t < trains; t++ {
		for i := 0; i < inst.Stations; i++ {
			var expr milp.Expr
			for j := 0; j < inst.Stations; j++ {
				if i == j {
					continue
				}
				expr = append(expr,
					milp.Term{Var: rm.X[GetRouteIndex(i, j, inst.Stations)][t], Coeff: 1},
					milp.Term{Var: rm.X[GetRouteIndex(j, i, inst.Stations)][t], Coeff: -1})
			}
			m.AddConstr(fmt.Sprintf("FlowConservation_%d_%s", i, TrainName(t)), expr, milp.Equal, 0)
		}
	}

	/* Track capacity, only for the first numRoutes routes */
	rm.CapacityRoutes = numRoutes
	if rm.CapacityRoutes > len(routes) {
		rm.CapacityRoutes = len(routes)
	}
	if rm.CapacityRoutes < 0 {
		rm.CapacityRoutes = 0
	}
	for r, route := range routes[:rm.CapacityRoutes] {
		expr := make(milp.Expr, 0, trains)
		for t := 0; t < trains; t++ {
			expr = append(expr, milp.Term{Var: rm.X[r][t], Coeff: 1})
		}
		m.AddConstr(fmt.Sprintf("TrackCapacity_%d_%d", route.From, route.To), expr, milp.LessEqual,
			float64(inst.Capacities[route.From][route.To]))
	}

	/* Delay calculation: y_t >= scheduled_t - sum of travel times used by t */
	for t := 0; t < trains; t++ {
		expr := milp.Expr{{Var: rm.Y[t], Coeff: 1}}
		for r, route := range routes {
			expr = append(expr, milp.Term{Var: rm.X[r][t], Coeff: float64(inst.TravelTimes[route.From][route.To])})
		}
		m.AddConstr(fmt.Sprintf("DelayCalc_%s", TrainName(t)), expr, milp.GreaterEqual, float64(inst.ScheduledTimes[t]))
	}

	/* Minimum number of stops, over all routes */
	for t := 0; t < trains; t++ {
		expr := make(milp.Expr, 0, len(routes))
		for r := range routes {
			expr = append(expr, milp.Term{Var: rm.X[r][t], Coeff: 1})
		}
		m.AddConstr(fmt.Sprintf("MinStops_%s", TrainName(t)), expr, milp.GreaterEqual, float64(minStops))
	}

	return rm
}
