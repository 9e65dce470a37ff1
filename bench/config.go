// Package bench measures how long building and solving the train routing
// model takes for a fixed list of problem sizes.
package bench

import "git.solver4all.com/azaryc2s/trainroute"

// DefaultTrials is the number of repetitions of the whole configuration list.
const DefaultTrials = 500

// DefaultConfigurations are the benchmarked problem sizes:
// stations, trains, capacity-constrained routes, minimum stops.
var DefaultConfigurations = []trainroute.ProblemConfiguration{
	{Stations: 1, Trains: 2, NumRoutes: 1, MinStops: 3},
	{Stations: 2, Trains: 2, NumRoutes: 2, MinStops: 3},
	{Stations: 3, Trains: 3, NumRoutes: 3, MinStops: 3},
	{Stations: 4, Trains: 3, NumRoutes: 4, MinStops: 3},
	{Stations: 5, Trains: 3, NumRoutes: 5, MinStops: 3},
	{Stations: 6, Trains: 3, NumRoutes: 6, MinStops: 3},
	{Stations: 7, Trains: 5, NumRoutes: 7, MinStops: 5},
	{Stations: 8, Trains: 5, NumRoutes: 8, MinStops: 5},
	{Stations: 9, Trains: 5, NumRoutes: 9, MinStops: 5},
	{Stations: 10, Trains: 5, NumRoutes: 10, MinStops: 5},
	{Stations: 11, Trains: 5, NumRoutes: 11, MinStops: 5},
	{Stations: 12, Trains: 5, NumRoutes: 12, MinStops: 5},
	{Stations: 13, Trains: 5, NumRoutes: 13, MinStops: 5},
	{Stations: 14, Trains: 5, NumRoutes: 14, MinStops: 5},
	{Stations: 15, Trains: 5, NumRoutes: 15, MinStops: 5},
	{Stations: 16, Trains: 5, NumRoutes: 16, MinStops: 5},
	{Stations: 17, Trains: 5, NumRoutes: 17, MinStops: 5},
	{Stations: 18, Trains: 5, NumRoutes: 18, MinStops: 5},
	{Stations: 19, Trains: 5, NumRoutes: 19, MinStops: 5},
	{Stations: 20, Trains: 5, NumRoutes: 20, MinStops: 5},
}
