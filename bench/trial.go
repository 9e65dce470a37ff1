package bench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"git.solver4all.com/azaryc2s/trainroute"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// Phase is the step a trial is in.
type Phase int

const (
	PhaseGenerating Phase = iota
	PhaseBuilding
	PhaseSolving
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseBuilding:
		return "building"
	case PhaseSolving:
		return "solving"
	}
	return "done"
}

// TrialRunner runs one generate, build and solve cycle. Only building and
// solving are timed; console output is suppressed from building until the
// solution has been printed.
type TrialRunner struct {
	Generator *trainroute.Generator
	Solver    milp.Solver
	Silencer  Silencer
	Clock     Clock
	// Out receives the solution printout. Nil means os.Stdout.
	Out     io.Writer
	Logger  *slog.Logger
	Metrics *Metrics
}

// Run executes one trial of cfg, using minStops instead of cfg.MinStops.
// A non-optimal solve is logged and still yields a sample; an engine error
// or a failure to suppress or restore the output is returned. Logging
// happens only once the output is restored.
func (tr *TrialRunner) Run(cfg trainroute.ProblemConfiguration, minStops int) (Sample, error) {
	logger := tr.logger()

	inst, err := tr.Generator.Generate(cfg.Stations, cfg.Trains)
	if err != nil {
		return Sample{}, errors.Wrapf(err, "trial %s: %s", cfg, PhaseGenerating)
	}

	rm, res, elapsed, err := tr.solveSilenced(cfg, inst, minStops)
	if err != nil {
		return Sample{}, err
	}

	sample := Sample{Seconds: elapsed.Seconds(), Status: res.Status}
	if sample.Seconds < 0 {
		sample.Seconds = 0
	}

	if res.Status != milp.StatusOptimal {
		logger.Warn("solver did not report an optimal solution",
			"stations", cfg.Stations, "trains", cfg.Trains, "min_stops", minStops, "status", res.Status.String())
	} else if verr := rm.Validate(inst, rm.Assignment(res.X)); verr != nil {
		logger.Error("optimal assignment violates the model", "stations", cfg.Stations, "error", verr)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("trial done", "stations", cfg.Stations, "phase", PhaseDone.String(),
			"seconds", sample.Seconds, "model", rm.String(), "solution", spew.Sdump(trainroute.NewSolution(inst, rm, res)))
	}
	if tr.Metrics != nil {
		tr.Metrics.ObserveTrial(cfg, sample)
	}
	return sample, nil
}

// solveSilenced builds and solves inst while the console output is
// suppressed and prints the solution before restoring it. The returned
// duration covers building and solving.
func (tr *TrialRunner) solveSilenced(cfg trainroute.ProblemConfiguration, inst *trainroute.Instance, minStops int) (rm *trainroute.RoutingModel, res *milp.Result, elapsed time.Duration, err error) {
	restore, err := tr.Silencer.Silence()
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "trial %s: suppressing output", cfg)
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = errors.Wrapf(rerr, "trial %s", cfg)
		}
	}()

	start := tr.Clock.Now()
	phase := PhaseBuilding
	rm = trainroute.BuildModel(inst, cfg.NumRoutes, minStops)

	phase = PhaseSolving
	res, err = tr.Solver.Solve(rm.Model)
	elapsed = tr.Clock.Now().Sub(start)
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "trial %s: %s", cfg, phase)
	}

	out := tr.Out
	if out == nil {
		out = os.Stdout
	}
	trainroute.PrintSolution(out, inst, trainroute.NewSolution(inst, rm, res))
	return rm, res, elapsed, nil
}

func (tr *TrialRunner) logger() *slog.Logger {
	if tr.Logger == nil {
		return slog.Default()
	}
	return tr.Logger
}
