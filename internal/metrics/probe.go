// Package metrics provides Prometheus-compatible metrics for antiprobe.
package metrics

import (
	"time"

	"antiprobe/internal/evidence"
)

// ProbeMetrics holds all antiprobe-specific metrics, registered once
// per process and updated after each finalized run.
type ProbeMetrics struct {
	registry *Registry

	RunsTotal        *Counter
	VerdictsTotal    map[evidence.Verdict]*Counter
	ContradictionsTotal *Counter
	ErrorsTotal      *Counter

	CumulativeScore *Gauge
	RawScore        *Gauge
	EnvironmentalFactor *Gauge
	DetectorWeight  map[evidence.Source]*Gauge

	RunDuration *Histogram
}

// startTime records when this package was initialized; Uptime measures
// from it.
var startTime = time.Now()

// NewProbeMetrics creates and registers all antiprobe metrics on registry.
func NewProbeMetrics(registry *Registry) *ProbeMetrics {
	if registry == nil {
		registry = Default()
	}

	m := &ProbeMetrics{
		registry: registry,

		RunsTotal: registry.RegisterCounter(
			"runs_total",
			"Total number of completed probe runs",
			nil,
		),
		ContradictionsTotal: registry.RegisterCounter(
			"contradictions_total",
			"Total number of contradictions detected across all runs",
			nil,
		),
		ErrorsTotal: registry.RegisterCounter(
			"errors_total",
			"Total number of detector errors",
			nil,
		),

		CumulativeScore: registry.RegisterGauge(
			"cumulative_score",
			"Cumulative score of the most recent run",
			nil,
		),
		RawScore: registry.RegisterGauge(
			"raw_score",
			"Raw score of the most recent run, before environmental adjustment",
			nil,
		),
		EnvironmentalFactor: registry.RegisterGauge(
			"environmental_factor",
			"Environmental adjustment factor applied in the most recent run",
			nil,
		),

		RunDuration: registry.RegisterHistogram(
			"run_duration_seconds",
			"Duration of a full detector sweep in seconds",
			nil,
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
	}

	m.VerdictsTotal = make(map[evidence.Verdict]*Counter, 4)
	for _, v := range []evidence.Verdict{evidence.Clean, evidence.Suspicious, evidence.Instrumented, evidence.Deceptive} {
		m.VerdictsTotal[v] = registry.RegisterCounter(
			"verdicts_total",
			"Total runs concluding in each verdict",
			Labels{"verdict": v.String()},
		)
	}

	m.DetectorWeight = make(map[evidence.Source]*Gauge, len(evidence.MaxWeight))
	for source := range evidence.MaxWeight {
		m.DetectorWeight[source] = registry.RegisterGauge(
			"detector_weight",
			"Weight contributed by each detector in the most recent run",
			Labels{"source": source.String()},
		)
	}

	return m
}

// RecordRun updates every metric from one finalized run. history is
// the evidence a run produced; a source absent from history resets
// its gauge to zero rather than leaving a stale value from a prior run.
func (m *ProbeMetrics) RecordRun(verdict evidence.Verdict, score, rawScore uint, envFactor float64, history []evidence.Evidence, contradictions int, duration time.Duration) {
	m.RunsTotal.Inc()
	if c, ok := m.VerdictsTotal[verdict]; ok {
		c.Inc()
	}
	m.ContradictionsTotal.Add(uint64(contradictions))

	m.CumulativeScore.Set(int64(score))
	m.RawScore.Set(int64(rawScore))
	m.EnvironmentalFactor.Set(int64(envFactor * 1000)) // millis, Gauge is integer-valued
	m.RunDuration.ObserveDuration(duration)

	weights := make(map[evidence.Source]uint, len(history))
	for _, ev := range history {
		weights[ev.Source] += ev.Weight
	}
	for source, gauge := range m.DetectorWeight {
		gauge.Set(int64(weights[source]))
	}
}

// RecordError increments the detector-error counter.
func (m *ProbeMetrics) RecordError() {
	m.ErrorsTotal.Inc()
}

// Uptime returns how long ago the metrics package was initialized; the
// value is the same for every ProbeMetrics instance in the process.
func (m *ProbeMetrics) Uptime() time.Duration {
	return time.Since(startTime)
}

// Global antiprobe metrics instance, used by cmd/antiprobe when
// --metrics-addr is set.
var defaultProbeMetrics *ProbeMetrics

// GetMetrics returns the global antiprobe metrics instance,
// initializing it against the default registry on first use.
func GetMetrics() *ProbeMetrics {
	if defaultProbeMetrics == nil {
		defaultProbeMetrics = NewProbeMetrics(Default())
	}
	return defaultProbeMetrics
}

// InitMetrics initializes the global antiprobe metrics with a custom registry.
func InitMetrics(registry *Registry) *ProbeMetrics {
	defaultProbeMetrics = NewProbeMetrics(registry)
	return defaultProbeMetrics
}
