package bench

import (
	"log/slog"

	"git.solver4all.com/azaryc2s/trainroute"
	"github.com/pkg/errors"
)

// Harness repeats the whole configuration list Trials times, one trial per
// configuration and repetition, strictly in sequence.
type Harness struct {
	Runner  *TrialRunner
	Configs []trainroute.ProblemConfiguration
	Trials  int
	Logger  *slog.Logger
}

// Run returns the collected samples. Every trial is run with min_stops set
// to the station count of its configuration; the configured MinStops is
// not used.
func (h *Harness) Run() (*BenchmarkState, error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if h.Trials < 1 {
		return nil, errors.Errorf("number of trials must be positive, got %d", h.Trials)
	}
	state := NewBenchmarkState(h.Configs)
	for trial := 0; trial < h.Trials; trial++ {
		for k, cfg := range h.Configs {
			sample, err := h.Runner.Run(cfg, cfg.Stations)
			if err != nil {
				return nil, errors.Wrapf(err, "trial %d", trial+1)
			}
			if err = state.Record(k, sample); err != nil {
				return nil, err
			}
		}
		logger.Debug("trial finished", "trial", trial+1, "of", h.Trials)
	}
	logger.Info("benchmark finished", "trials", h.Trials, "configurations", len(h.Configs))
	return state, nil
}
