package bench

import (
	"git.solver4all.com/azaryc2s/trainroute"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

// Sample is the measurement of one trial.
type Sample struct {
	Seconds float64
	Status  milp.Status
}

// BenchmarkState owns the samples of one benchmark run, in configuration
// order. It lives for one run and is read by the Reporter at the end.
type BenchmarkState struct {
	Configs []trainroute.ProblemConfiguration
	Samples [][]Sample
}

func NewBenchmarkState(configs []trainroute.ProblemConfiguration) *BenchmarkState {
	return &BenchmarkState{
		Configs: configs,
		Samples: make([][]Sample, len(configs)),
	}
}

// Record appends s to the samples of configuration k.
func (b *BenchmarkState) Record(k int, s Sample) error {
	if k < 0 || k >= len(b.Configs) {
		return errors.Errorf("configuration index %d out of range [0,%d)", k, len(b.Configs))
	}
	b.Samples[k] = append(b.Samples[k], s)
	return nil
}

// Seconds returns the durations recorded for configuration k.
func (b *BenchmarkState) Seconds(k int) []float64 {
	out := make([]float64, len(b.Samples[k]))
	for i, s := range b.Samples[k] {
		out[i] = s.Seconds
	}
	return out
}
