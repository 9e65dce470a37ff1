package trainroute

import (
	"testing"

	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationFlags(t *testing.T) {
	var flags ConfigurationFlags
	require.NoError(t, flags.Set("4,2,4,4"))
	require.NoError(t, flags.Set(" 10, 5, 10, 5"))
	assert.Equal(t, ConfigurationFlags{
		{Stations: 4, Trains: 2, NumRoutes: 4, MinStops: 4},
		{Stations: 10, Trains: 5, NumRoutes: 10, MinStops: 5},
	}, flags)
	assert.Equal(t, "4,2,4,4 10,5,10,5", flags.String())
}

func TestParseConfigurationErrors(t *testing.T) {
	for _, value := range []string{"", "1,2,3", "a,2,3,4", "3,-1,2,2"} {
		_, err := ParseConfiguration(value)
		assert.Error(t, err, value)
	}
	_, err := ParseConfiguration("0,2,1,1")
	assert.ErrorIs(t, err, ErrNoStations)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func TestErrorsCarryStackTraces(t *testing.T) {
	_, err := ParseConfiguration("3,-1,2,2")
	assert.Implements(t, (*stackTracer)(nil), err)
	_, err = ParseConfiguration("1,2")
	assert.Implements(t, (*stackTracer)(nil), err)
	_, err = NewGenerator(1).Generate(2, -1)
	assert.Implements(t, (*stackTracer)(nil), err)

	m := milp.NewModel("check")
	m.AddVar("x", milp.Binary, 0, 1)
	assert.Implements(t, (*stackTracer)(nil), m.Check([]float64{2}, 1e-9))
}
