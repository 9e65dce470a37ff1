package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"git.solver4all.com/azaryc2s/trainroute"
	"git.solver4all.com/azaryc2s/trainroute/milp"
	"github.com/pkg/errors"
)

const banner = "======================================================================"

var ErrSampleCount = errors.New("unexpected number of samples")

// Summary is the aggregated result of one configuration.
type Summary struct {
	Config  trainroute.ProblemConfiguration `json:"config"`
	Average float64                         `json:"average"`
	Rounded float64                         `json:"rounded"`
	Optimal int                             `json:"optimal"`
	Samples []float64                       `json:"samples"`
}

// Report is the JSON form of a finished benchmark.
type Report struct {
	Trials    int                `json:"trials"`
	System    trainroute.SysInfo `json:"system"`
	Summaries []Summary          `json:"summaries"`
}

// Reporter turns a BenchmarkState into averages, a console table and a
// tab-separated export.
type Reporter struct {
	Trials int
}

// Summaries averages the samples of every configuration. Every
// configuration must hold exactly Trials samples.
func (r Reporter) Summaries(state *BenchmarkState) ([]Summary, error) {
	out := make([]Summary, len(state.Configs))
	for k, cfg := range state.Configs {
		samples := state.Seconds(k)
		if len(samples) != r.Trials {
			return nil, errors.Wrapf(ErrSampleCount, "configuration %s has %d samples, want %d", cfg, len(samples), r.Trials)
		}
		optimal := 0
		for _, s := range state.Samples[k] {
			if s.Status == milp.StatusOptimal {
				optimal++
			}
		}
		avg := Average(samples)
		out[k] = Summary{Config: cfg, Average: avg, Rounded: Round4(avg), Optimal: optimal, Samples: samples}
	}
	return out, nil
}

// Average is the arithmetic mean of samples, 0 for none.
func Average(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Print writes the human readable report.
func (r Reporter) Print(w io.Writer, summaries []Summary) {
	fmt.Fprintln(w, banner)
	for _, s := range summaries {
		fmt.Fprintf(w, "Train Stations: %d\n", s.Config.Stations)
		fmt.Fprintf(w, "Average execution time: %.4f seconds\n\n", s.Rounded)
	}
	fmt.Fprintln(w, banner)
}

// Export returns one "stations<TAB>average" line per configuration.
func (r Reporter) Export(summaries []Summary) string {
	var b strings.Builder
	for _, s := range summaries {
		b.WriteString(strconv.Itoa(s.Config.Stations))
		b.WriteByte('\t')
		b.WriteString(formatSeconds(s.Rounded))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatSeconds prints the shortest representation of v that keeps at
// least one decimal place, so 2 is written as 2.0.
func formatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// WriteJSON writes the report as indented JSON with compact number arrays.
func (r Reporter) WriteJSON(w io.Writer, sys trainroute.SysInfo, summaries []Summary) error {
	data, err := json.MarshalIndent(Report{Trials: r.Trials, System: sys, Summaries: summaries}, "", "\t")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	_, err = io.WriteString(w, trainroute.SanitizeJsonArrayLineBreaks(string(data))+"\n")
	return err
}
