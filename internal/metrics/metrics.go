// Package metrics records per-check measurements in a Prometheus
// registry and writes them in text exposition format, suitable for the
// node-exporter textfile collector on CI runners.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/arnevik/readygate/internal/result"
)

// Collector accumulates check measurements over one validation run.
type Collector struct {
	registry *prometheus.Registry

	checks   *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	overall  *prometheus.GaugeVec
}

// NewCollector creates a collector with a private registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readygate_checks_total",
			Help: "Validation checks by phase and status.",
		}, []string{"phase", "status"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readygate_probe_attempts_total",
			Help: "Probe attempts by phase and check.",
		}, []string{"phase", "check"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "readygate_check_duration_seconds",
			Help:    "Total polling duration per check.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"phase", "check"}),
		overall: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "readygate_run_status",
			Help: "Run outcome (1 for the active status label, 0 otherwise).",
		}, []string{"status"}),
	}

	registry.MustRegister(c.checks, c.attempts, c.duration, c.overall)
	return c
}

// ObserveCheck records one finished check. Implements pipeline.MetricsSink.
func (c *Collector) ObserveCheck(phase, check string, status result.Status, attempts int, elapsed time.Duration) {
	c.checks.WithLabelValues(phase, string(status)).Inc()
	c.attempts.WithLabelValues(phase, check).Add(float64(attempts))
	c.duration.WithLabelValues(phase, check).Observe(elapsed.Seconds())
}

// ObserveRun records the run-level outcome.
func (c *Collector) ObserveRun(run *result.Run) {
	for _, status := range []result.Status{result.StatusPass, result.StatusWarn, result.StatusFail} {
		value := 0.0
		if run.Overall == status {
			value = 1.0
		}
		c.overall.WithLabelValues(string(status)).Set(value)
	}
}

// WriteTextfile gathers the registry and writes it atomically to path via
// a temp file rename, as the textfile collector expects.
func (c *Collector) WriteTextfile(path string) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".readygate-metrics-*")
	if err != nil {
		return fmt.Errorf("failed to create temp metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp metrics file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
