package trainroute

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

const (
	MinTravelTime    = 5
	MaxTravelTime    = 30
	MinScheduledTime = 50
	MaxScheduledTime = 100
	DefaultCapacity  = 1
)

var ErrNoStations = errors.New("at least one station is required")

// Generator draws random instances. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate draws travel times for every route, a scheduled time for every
// train and sets every route capacity to DefaultCapacity. (i,j) and (j,i)
// are independent draws.
func (g *Generator) Generate(stations, trains int) (*Instance, error) {
	if stations < 1 {
		return nil, ErrNoStations
	}
	if trains < 0 {
		return nil, errors.Errorf("negative number of trains: %d", trains)
	}

	travel := make([][]int, stations)
	for i := 0; i < stations; i++ {
		travel[i] = make([]int, stations)
		for j := 0; j < stations; j++ {
			if i != j {
				travel[i][j] = MinTravelTime + g.rng.Intn(MaxTravelTime-MinTravelTime+1)
			}
		}
	}

	scheduled := make([]int, trains)
	for t := 0; t < trains; t++ {
		scheduled[t] = MinScheduledTime + g.rng.Intn(MaxScheduledTime-MinScheduledTime+1)
	}

	capacity := make([][]int, stations)
	for i := 0; i < stations; i++ {
		capacity[i] = make([]int, stations)
		for j := 0; j < stations; j++ {
			if i != j {
				capacity[i][j] = DefaultCapacity
			}
		}
	}

	return &Instance{
		Name:           fmt.Sprintf("train_routing_%d_%d", stations, trains),
		Stations:       stations,
		Trains:         trains,
		TravelTimes:    travel,
		ScheduledTimes: scheduled,
		Capacities:     capacity,
	}, nil
}
