package trainroute

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ConfigurationFlags collects repeated "stations,trains,routes,minstops" values.
type ConfigurationFlags []ProblemConfiguration

func (i *ConfigurationFlags) String() string {
	parts := make([]string, len(*i))
	for k, c := range *i {
		parts[k] = c.String()
	}
	return strings.Join(parts, " ")
}

func (i *ConfigurationFlags) Set(value string) error {
	c, err := ParseConfiguration(value)
	if err != nil {
		return err
	}
	*i = append(*i, c)
	return nil
}

// ParseConfiguration parses "stations,trains,routes,minstops".
func ParseConfiguration(value string) (ProblemConfiguration, error) {
	fields := strings.Split(value, ",")
	if len(fields) != 4 {
		return ProblemConfiguration{}, errors.Errorf("configuration %q: want stations,trains,routes,minstops", value)
	}
	vals := make([]int, 4)
	for k, f := range fields {
		val, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return ProblemConfiguration{}, errors.Wrapf(err, "configuration %q", value)
		}
		if val < 0 {
			return ProblemConfiguration{}, errors.Errorf("configuration %q: negative value %d", value, val)
		}
		vals[k] = val
	}
	if vals[0] < 1 {
		return ProblemConfiguration{}, errors.Wrapf(ErrNoStations, "configuration %q", value)
	}
	return ProblemConfiguration{Stations: vals[0], Trains: vals[1], NumRoutes: vals[2], MinStops: vals[3]}, nil
}
