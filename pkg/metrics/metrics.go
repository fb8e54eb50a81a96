// Package metrics exposes Prometheus collectors for the update engine:
// flushes, component renders, reconciler work and host-tree operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/reactive"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "reflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reflow",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
//
// Metrics collected:
//   - reflow_flushes_total: Counter of completed flushes
//   - reflow_flush_batch_size: Histogram of computations per flush
//   - reflow_flush_duration_seconds: Histogram of flush wall time
//   - reflow_renders_total: Counter of component patches by component
//   - reflow_patch_errors_total: Counter of failed patches by component
//   - reflow_nodes_total: Counter of reconciler node work by kind
//     (created, moved, removed, replaced)
//   - reflow_host_ops_total: Counter of host-tree operations by op
//   - reflow_http_requests_total: Counter of dev server requests by route,
//     method and status
//   - reflow_http_request_duration_seconds: Histogram of request duration
//     by route
type Metrics struct {
	flushesTotal  prometheus.Counter
	flushBatch    prometheus.Histogram
	flushDuration prometheus.Histogram
	rendersTotal  *prometheus.CounterVec
	patchErrors   *prometheus.CounterVec
	nodesTotal    *prometheus.CounterVec
	hostOpsTotal  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushBatch: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_batch_size",
			Help:        "Number of computations run per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of successful component patches",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		patchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_errors_total",
			Help:        "Total number of failed component patches",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		nodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_total",
			Help:        "Reconciler node work by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		hostOpsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Host-tree operations by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// ObserveScheduler records every flush of s.
func (m *Metrics) ObserveScheduler(s *reactive.Scheduler) {
	s.OnFlush(m.RecordFlush)
}

// RecordFlush records one completed flush.
func (m *Metrics) RecordFlush(st reactive.FlushStats) {
	m.flushesTotal.Inc()
	m.flushBatch.Observe(float64(st.Batch))
	m.flushDuration.Observe(st.Duration.Seconds())
}

// RecordPatch records the outcome of inst's most recent patch.
func (m *Metrics) RecordPatch(inst *component.Instance) {
	if inst.Err() != nil {
		m.patchErrors.WithLabelValues(inst.Name()).Inc()
		return
	}
	m.rendersTotal.WithLabelValues(inst.Name()).Inc()

	st := inst.Stats()
	m.nodesTotal.WithLabelValues("created").Add(float64(st.Created))
	m.nodesTotal.WithLabelValues("moved").Add(float64(st.Moved))
	m.nodesTotal.WithLabelValues("removed").Add(float64(st.Removed))
	m.nodesTotal.WithLabelValues("replaced").Add(float64(st.Replaced))
}

// AfterPatch returns a component option recording every patch attempt.
func (m *Metrics) AfterPatch() component.Option {
	return component.AfterPatch(m.RecordPatch)
}
