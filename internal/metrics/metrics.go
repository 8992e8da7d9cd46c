// Package metrics counts scored audits and generated reports. A CLI run is short
// lived, so the registry is exported to a node_exporter textfile rather than
// served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of one run. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Scored audits by conformity level
	AuditsScored *prometheus.CounterVec

	// Global score distribution
	GlobalScore prometheus.Histogram

	// Reports written to disk
	ReportsGenerated prometheus.Counter

	// Failures by stage: load, score, build, write
	Failures *prometheus.CounterVec

	// Duration of building one workbook
	BuildLatency prometheus.Histogram
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		AuditsScored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auditscore_audits_scored_total",
			Help: "Total audits scored by conformity level",
		}, []string{"level"}),

		GlobalScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditscore_global_score_percent",
			Help:    "Global compliance score of scored audits",
			Buckets: []float64{40, 60, 75, 90, 100},
		}),

		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "auditscore_reports_generated_total",
			Help: "Total xlsx reports written",
		}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auditscore_failures_total",
			Help: "Total audit processing failures by stage",
		}, []string{"stage"}),

		BuildLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditscore_report_build_duration_seconds",
			Help:    "Duration of building one xlsx report",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveAudit records a scored audit.
func (m *Metrics) ObserveAudit(level string, score float64) {
	if m != nil {
		m.AuditsScored.WithLabelValues(level).Inc()
		m.GlobalScore.Observe(score)
	}
}

// ObserveReport records a written report and how long it took to build.
func (m *Metrics) ObserveReport(d time.Duration) {
	if m != nil {
		m.ReportsGenerated.Inc()
		m.BuildLatency.Observe(d.Seconds())
	}
}

// IncrementFailure records a failure at the given stage.
func (m *Metrics) IncrementFailure(stage string) {
	if m != nil {
		m.Failures.WithLabelValues(stage).Inc()
	}
}

// WriteTextfile writes the registry in the Prometheus text format. The file is
// replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
