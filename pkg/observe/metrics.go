package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect run duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records reactive activity as Prometheus metrics.
//
// Metrics collected:
//   - reactive_effect_runs_total: Counter of effect runs by status (ok, panic)
//   - reactive_effect_run_duration_seconds: Histogram of effect run duration
//   - reactive_effects_running: Gauge of effects currently running
//   - reactive_tracks_total: Counter of recorded dependencies by op
//   - reactive_triggers_total: Counter of effects triggered by op
//   - reactive_effect_stops_total: Counter of stopped effects
type Metrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	running     prometheus.Gauge
	tracksTotal *prometheus.CounterVec
	triggers    *prometheus.CounterVec
	stopsTotal  prometheus.Counter
}

// NewMetrics creates and registers the metrics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	reactive.SetObserver(observe.NewMetrics(observe.WithRegistry(reg)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_running",
			Help:        "Number of effects currently running",
			ConstLabels: config.ConstLabels,
		}),

		tracksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracks_total",
			Help:        "Total number of dependencies recorded",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of effects triggered by writes",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		stopsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_stops_total",
			Help:        "Total number of stopped effects",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// OnTrack counts a recorded dependency by op.
func (m *Metrics) OnTrack(event reactive.DebuggerEvent) {
	m.tracksTotal.WithLabelValues(event.Op.String()).Inc()
}

// OnTrigger counts a triggered effect by op.
func (m *Metrics) OnTrigger(event reactive.DebuggerEvent) {
	m.triggers.WithLabelValues(event.Op.String()).Inc()
}

// OnEffectStart increments the running gauge.
func (m *Metrics) OnEffectStart(*reactive.Effect) {
	m.running.Inc()
}

// OnEffectEnd decrements the running gauge, observes the run duration and
// counts the run by status.
func (m *Metrics) OnEffectEnd(_ *reactive.Effect, elapsed time.Duration, panicked bool) {
	m.running.Dec()
	m.runDuration.Observe(elapsed.Seconds())
	status := "ok"
	if panicked {
		status = "panic"
	}
	m.runsTotal.WithLabelValues(status).Inc()
}

// OnEffectStop counts a stopped effect.
func (m *Metrics) OnEffectStop(*reactive.Effect) {
	m.stopsTotal.Inc()
}
