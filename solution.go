package trainroute

import (
	"fmt"
	"io"
	"math"

	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

// Assignment is the decoded decision of a solve.
type Assignment struct {
	// Uses[r][t] reports whether train t uses route r.
	Uses   [][]bool
	Delays []int
}

// Assignment decodes the variable values x of a solved RoutingModel.
func (rm *RoutingModel) Assignment(x []float64) *Assignment {
	a := &Assignment{Uses: make([][]bool, len(rm.X)), Delays: make([]int, len(rm.Y))}
	for r := range rm.X {
		a.Uses[r] = make([]bool, len(rm.X[r]))
		for t, v := range rm.X[r] {
			a.Uses[r][t] = x[v] > 0.5
		}
	}
	for t, v := range rm.Y {
		a.Delays[t] = int(math.Round(x[v]))
	}
	return a
}

// Validate checks flow conservation, the capacity prefix, the minimum
// number of stops and the delay bound of a against inst.
func (rm *RoutingModel) Validate(inst *Instance, a *Assignment) error {
	n := inst.Stations
	for t := 0; t < inst.Trains; t++ {
		in := make([]int, n)
		out := make([]int, n)
		stops := 0
		travel := 0
		for r, route := range rm.Routes {
			if !a.Uses[r][t] {
				continue
			}
			out[route.From]++
			in[route.To]++
			stops++
			travel += inst.TravelTimes[route.From][route.To]
		}
		for i := 0; i < n; i++ {
			if in[i] != out[i] {
				return errors.Errorf("train %s enters station %s %d times but leaves it %d times",
					TrainName(t), StationName(i), in[i], out[i])
			}
		}
		if stops < rm.MinStops {
			return errors.Errorf("train %s makes %d stops, at least %d required", TrainName(t), stops, rm.MinStops)
		}
		if a.Delays[t] < inst.ScheduledTimes[t]-travel {
			return errors.Errorf("train %s delay %d below %d", TrainName(t), a.Delays[t], inst.ScheduledTimes[t]-travel)
		}
	}
	for r, route := range rm.Routes[:rm.CapacityRoutes] {
		used := 0
		for t := 0; t < inst.Trains; t++ {
			if a.Uses[r][t] {
				used++
			}
		}
		if used > inst.Capacities[route.From][route.To] {
			return errors.Errorf("route %s used by %d trains, capacity %d", route, used, inst.Capacities[route.From][route.To])
		}
	}
	return nil
}

// NewSolution summarizes a solver result. Routes and delays are only
// filled for optimal results.
func NewSolution(inst *Instance, rm *RoutingModel, res *milp.Result) *Solution {
	sol := &Solution{Status: res.Status.String()}
	if res.Status != milp.StatusOptimal || res.X == nil {
		return sol
	}
	a := rm.Assignment(res.X)
	sol.Routes = make([][]Route, inst.Trains)
	sol.Delays = a.Delays
	for t := 0; t < inst.Trains; t++ {
		for r, route := range rm.Routes {
			if a.Uses[r][t] {
				sol.Routes[t] = append(sol.Routes[t], route)
				sol.TravelTime += inst.TravelTimes[route.From][route.To]
			}
		}
		sol.TotalDelay += a.Delays[t]
	}
	return sol
}

// PrintSolution writes the station list and the per-train routes and
// delays the way the benchmark prints them while a trial runs.
func PrintSolution(w io.Writer, inst *Instance, sol *Solution) {
	stations := make([]string, inst.Stations)
	for i := range stations {
		stations[i] = StationName(i)
	}
	fmt.Fprintln(w, stations)
	if sol.Status != milp.StatusOptimal.String() {
		fmt.Fprintln(w, "Failed to find optimal solution", sol.Status)
		return
	}
	fmt.Fprintln(w, "Optimal solution found")
	for t := 0; t < inst.Trains; t++ {
		fmt.Fprintf(w, "Train %s:\n", TrainName(t))
		for _, route := range sol.Routes[t] {
			fmt.Fprintf(w, "  Route: %s\n", route)
		}
		fmt.Fprintf(w, "  Delay: %d\n", sol.Delays[t])
	}
}
