package bench

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"git.solver4all.com/azaryc2s/trainroute"
	"git.solver4all.com/azaryc2s/trainroute/bnb"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSolver advances the clock by delay and answers with status.
type fakeSolver struct {
	clock  *MockClock
	delay  time.Duration
	status milp.Status
	err    error
	panics bool

	models []*milp.Model
}

func (f *fakeSolver) Solve(m *milp.Model) (*milp.Result, error) {
	f.models = append(f.models, m)
	f.clock.Advance(f.delay)
	if f.panics {
		panic("solver crashed")
	}
	if f.err != nil {
		return nil, f.err
	}
	res := &milp.Result{Status: f.status}
	if f.status == milp.StatusOptimal {
		res.X = make([]float64, len(m.Vars))
	}
	return res, nil
}

// countingSilencer records how often output was suppressed and restored.
type countingSilencer struct {
	silenced, restored int
	failSilence        bool
	failRestore        bool
	active             bool
}

func (s *countingSilencer) Silence() (func() error, error) {
	if s.failSilence {
		return nil, errors.New("no descriptor")
	}
	s.silenced++
	s.active = true
	done := false
	return func() error {
		if done {
			return nil
		}
		done = true
		s.active = false
		s.restored++
		if s.failRestore {
			return errors.New("cannot restore")
		}
		return nil
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(solver milp.Solver, clock *MockClock, silencer Silencer, out io.Writer) *TrialRunner {
	return &TrialRunner{
		Generator: trainroute.NewGenerator(1),
		Solver:    solver,
		Silencer:  silencer,
		Clock:     clock,
		Out:       out,
		Logger:    quietLogger(),
	}
}

func TestTrialMeasuresBuildAndSolve(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	solver := &fakeSolver{clock: clock, delay: 1500 * time.Millisecond, status: milp.StatusInfeasible}
	silencer := &countingSilencer{}
	var out bytes.Buffer
	runner := newTestRunner(solver, clock, silencer, &out)
	runner.Metrics = NewMetrics()

	cfg := trainroute.ProblemConfiguration{Stations: 4, Trains: 2, NumRoutes: 4, MinStops: 1}
	sample, err := runner.Run(cfg, 4)
	require.NoError(t, err)

	assert.Equal(t, 1.5, sample.Seconds)
	assert.Equal(t, milp.StatusInfeasible, sample.Status)
	assert.Equal(t, 1, silencer.silenced)
	assert.Equal(t, 1, silencer.restored)
	assert.Contains(t, out.String(), "Failed to find optimal solution INFEASIBLE")

	require.Len(t, solver.models, 1)
	m := solver.models[0]
	assert.Equal(t, 24, m.NumVars(milp.Binary))
	assert.Equal(t, 2, m.NumVars(milp.Integer))
	for _, c := range m.Constraints {
		if c.Name == "MinStops_T1" {
			assert.Equal(t, 4.0, c.RHS, "min stops passed to Run wins over the configuration")
		}
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(runner.Metrics.TrialsTotal.WithLabelValues("4", "INFEASIBLE")))
}

// guardedWriter collects log lines and counts the ones written while the
// silencer is active.
type guardedWriter struct {
	silencer *countingSilencer
	lines    []string
	hidden   int
}

func (w *guardedWriter) Write(p []byte) (int, error) {
	w.lines = append(w.lines, string(p))
	if w.silencer.active {
		w.hidden++
	}
	return len(p), nil
}

func TestTrialLogsAfterOutputIsRestored(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	solver := &fakeSolver{clock: clock, status: milp.StatusOther}
	silencer := &countingSilencer{}
	logs := &guardedWriter{silencer: silencer}
	runner := newTestRunner(solver, clock, silencer, io.Discard)
	runner.Logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := runner.Run(trainroute.ProblemConfiguration{Stations: 3, Trains: 1, NumRoutes: 3, MinStops: 3}, 3)
	require.NoError(t, err)
	require.NotEmpty(t, logs.lines)
	assert.Contains(t, logs.lines[0], "solver did not report an optimal solution")
	assert.Zero(t, logs.hidden, "nothing is logged while the output is suppressed")
}

func TestTrialRestoresOutputOnSolverError(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	solver := &fakeSolver{clock: clock, err: errors.New("engine exploded")}
	silencer := &countingSilencer{}
	runner := newTestRunner(solver, clock, silencer, io.Discard)

	_, err := runner.Run(trainroute.ProblemConfiguration{Stations: 3, Trains: 1, NumRoutes: 3, MinStops: 3}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine exploded")
	assert.Contains(t, err.Error(), "solving")
	assert.Equal(t, 1, silencer.restored)
}

func TestTrialRestoresOutputOnPanic(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	solver := &fakeSolver{clock: clock, panics: true}
	silencer := &countingSilencer{}
	runner := newTestRunner(solver, clock, silencer, io.Discard)

	assert.Panics(t, func() {
		_, _ = runner.Run(trainroute.ProblemConfiguration{Stations: 3, Trains: 1, NumRoutes: 3, MinStops: 3}, 3)
	})
	assert.Equal(t, 1, silencer.silenced)
	assert.Equal(t, 1, silencer.restored)
}

func TestTrialRedirectionFailures(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	cfg := trainroute.ProblemConfiguration{Stations: 2, Trains: 1, NumRoutes: 2, MinStops: 2}

	solver := &fakeSolver{clock: clock, status: milp.StatusOptimal}
	_, err := newTestRunner(solver, clock, &countingSilencer{failSilence: true}, io.Discard).Run(cfg, 2)
	assert.ErrorContains(t, err, "suppressing output")
	assert.Empty(t, solver.models, "nothing is solved without suppressed output")

	silencer := &countingSilencer{failRestore: true}
	_, err = newTestRunner(solver, clock, silencer, io.Discard).Run(cfg, 2)
	assert.ErrorContains(t, err, "cannot restore")
	assert.Equal(t, 1, silencer.restored)
}

func TestTrialGeneratorError(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	solver := &fakeSolver{clock: clock}
	silencer := &countingSilencer{}
	_, err := newTestRunner(solver, clock, silencer, io.Discard).Run(trainroute.ProblemConfiguration{}, 0)
	assert.ErrorIs(t, err, trainroute.ErrNoStations)
	assert.Zero(t, silencer.silenced)
}

func TestTrialSingleStationWithEngine(t *testing.T) {
	var out bytes.Buffer
	runner := &TrialRunner{
		Generator: trainroute.NewGenerator(9),
		Solver:    milp.NewLexicographic(bnb.New(0, nil), nil),
		Silencer:  NopSilencer{},
		Clock:     RealClock{},
		Out:       &out,
		Logger:    quietLogger(),
	}
	sample, err := runner.Run(trainroute.ProblemConfiguration{Stations: 1, Trains: 2, NumRoutes: 1, MinStops: 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, sample.Status)
	assert.GreaterOrEqual(t, sample.Seconds, 0.0)
	assert.Less(t, sample.Seconds, 5.0)
	assert.Contains(t, out.String(), "Optimal solution found")
	assert.Contains(t, out.String(), "Train T2:")
}

func TestTrialSolvesSmallInstance(t *testing.T) {
	var out bytes.Buffer
	runner := &TrialRunner{
		Generator: trainroute.NewGenerator(4),
		Solver:    milp.NewLexicographic(bnb.New(0, nil), nil),
		Silencer:  NopSilencer{},
		Clock:     RealClock{},
		Out:       &out,
		Logger:    quietLogger(),
	}
	sample, err := runner.Run(trainroute.ProblemConfiguration{Stations: 4, Trains: 2, NumRoutes: 4, MinStops: 4}, 4)
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, sample.Status)
	assert.Contains(t, out.String(), "Route:")
}
