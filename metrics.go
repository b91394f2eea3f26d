package parambulator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics instruments the batch sweeps.
type SweepMetrics struct {
	Samples  *prometheus.CounterVec   // by sweep and outcome
	Eclipses *prometheus.CounterVec   // by eclipse type
	Duration *prometheus.HistogramVec // by sweep
}

// NewSweepMetrics creates the sweep metrics and registers them with reg, if not nil.
func NewSweepMetrics(reg prometheus.Registerer) *SweepMetrics {
	m := &SweepMetrics{
		Samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parambulator_samples_total",
				Help: "Total number of samples computed by the sweeps.",
			},
			[]string{"sweep", "outcome"},
		),
		Eclipses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parambulator_eclipse_samples_total",
				Help: "Total number of eclipse samples per shadow condition.",
			},
			[]string{"type"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parambulator_sweep_duration_seconds",
				Help:    "Duration of a whole sweep in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sweep"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Samples, m.Eclipses, m.Duration)
	}
	return m
}

func (m *SweepMetrics) observeSample(sweep string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Samples.WithLabelValues(sweep, outcome).Inc()
}

func (m *SweepMetrics) observeEclipse(t EclipseType) {
	if m == nil {
		return
	}
	m.Eclipses.WithLabelValues(t.String()).Inc()
}

func (m *SweepMetrics) observeDuration(sweep string, seconds float64) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(sweep).Observe(seconds)
}
