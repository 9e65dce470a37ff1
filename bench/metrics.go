package bench

import (
	"net/http"
	"strconv"

	"git.solver4all.com/azaryc2s/trainroute"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of a benchmark run.
type Metrics struct {
	Registry *prometheus.Registry

	TrialDuration *prometheus.HistogramVec
	TrialsTotal   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		TrialDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trainroute_trial_duration_seconds",
				Help:    "Model build and solve time of one trial",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 18),
			},
			[]string{"stations"},
		),
		TrialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trainroute_trials_total",
				Help: "Finished trials by solver status",
			},
			[]string{"stations", "status"},
		),
	}
	reg.MustRegister(m.TrialDuration, m.TrialsTotal)
	return m
}

func (m *Metrics) ObserveTrial(cfg trainroute.ProblemConfiguration, s Sample) {
	stations := strconv.Itoa(cfg.Stations)
	m.TrialDuration.WithLabelValues(stations).Observe(s.Seconds)
	m.TrialsTotal.WithLabelValues(stations, s.Status.String()).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
