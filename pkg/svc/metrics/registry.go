package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Step results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry holds the step metrics of one box process.
type Registry struct {
	registry *prometheus.Registry

	StepsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
	ClusterHosts prometheus.Gauge
	ClusterOSDs  prometheus.Gauge
}

// NewRegistry creates a Registry backed by its own prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.StepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "box_steps_total",
			Help: "Total number of orchestrator steps run",
		},
		[]string{"step", "result"},
	)

	r.StepDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "box_step_duration_seconds",
			Help:    "Duration of orchestrator steps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"step"},
	)

	r.ClusterHosts = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "box_cluster_hosts",
			Help: "Number of host containers requested by the last start",
		},
	)

	r.ClusterOSDs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "box_cluster_osds",
			Help: "Number of OSD volumes requested by the last start",
		},
	)

	return r
}

// RecordStep records one finished step.
func (r *Registry) RecordStep(step string, duration time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}

	r.StepsTotal.WithLabelValues(step, result).Inc()
	r.StepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// Track runs fn as step and records its outcome.
func (r *Registry) Track(step string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.RecordStep(step, time.Since(start), err)

	return err
}

// SetTopology records the requested cluster size.
func (r *Registry) SetTopology(hosts, osds int) {
	r.ClusterHosts.Set(float64(hosts))
	r.ClusterOSDs.Set(float64(osds))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
// An empty path is a no-op.
func (r *Registry) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}

	return nil
}
