package trainroute

import "fmt"

// Route is a directed edge between two stations, origin != destination.
type Route struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r Route) String() string {
	return fmt.Sprintf("%d -> %d", r.From, r.To)
}

// Instance is one randomly generated routing problem. Stations and trains
// are indexed from 0; TravelTimes and Capacities are indexed [from][to]
// and are zero on the diagonal.
type Instance struct {
	Name string `json:"name"`

	Stations       int     `json:"stations"`
	Trains         int     `json:"trains"`
	TravelTimes    [][]int `json:"travel_times"`
	ScheduledTimes []int   `json:"scheduled_times"`
	Capacities     [][]int `json:"capacities"`
}

// ProblemConfiguration is one problem size of the benchmark. NumRoutes is
// the length of the route prefix that gets capacity constraints.
type ProblemConfiguration struct {
	Stations  int `json:"stations"`
	Trains    int `json:"trains"`
	NumRoutes int `json:"num_routes"`
	MinStops  int `json:"min_stops"`
}

func (c ProblemConfiguration) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.Stations, c.Trains, c.NumRoutes, c.MinStops)
}

// Solution is the decoded result of one solve.
type Solution struct {
	Status     string    `json:"status"`
	TravelTime int       `json:"travel_time"`
	TotalDelay int       `json:"total_delay"`
	Routes     [][]Route `json:"routes"`
	Delays     []int     `json:"delays"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	RAM      string `json:"ram"`
}
