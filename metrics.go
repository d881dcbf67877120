package arbor

import "github.com/prometheus/client_golang/prometheus"

// MetricsConfig configures element metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "arbor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "element").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures element metrics.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "arbor",
		Subsystem: "element",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics counts what elements do to their nodes. A nil *Metrics records
// nothing.
type Metrics struct {
	nodesCreated        *prometheus.CounterVec
	propertyWrites      prometheus.Counter
	animationsStarted   prometheus.Counter
	animationsSkipped   prometheus.Counter
	animationsCancelled prometheus.Counter
}

// NewMetrics creates and registers element counters.
// Panics if registration fails, like prometheus.MustRegister.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		})
	}

	m := &Metrics{
		nodesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Render nodes created by Populate, by node type.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		propertyWrites:      counter("property_writes_total", "Properties written to nodes by Set."),
		animationsStarted:   counter("animations_started_total", "Property animations started."),
		animationsSkipped:   counter("animations_skipped_total", "Animations skipped because the target equals the current value."),
		animationsCancelled: counter("animations_cancelled_total", "Delayed animation starts cancelled before firing."),
	}

	cfg.Registry.MustRegister(
		m.nodesCreated,
		m.propertyWrites,
		m.animationsStarted,
		m.animationsSkipped,
		m.animationsCancelled,
	)
	return m
}

func (m *Metrics) nodeCreated(text bool) {
	if m == nil {
		return
	}
	typ := NodeTypeQuad
	if text {
		typ = NodeTypeText
	}
	m.nodesCreated.WithLabelValues(typ.String()).Inc()
}

func (m *Metrics) propertyWritten() {
	if m != nil {
		m.propertyWrites.Inc()
	}
}

func (m *Metrics) animationStarted() {
	if m != nil {
		m.animationsStarted.Inc()
	}
}

func (m *Metrics) animationSkipped() {
	if m != nil {
		m.animationsSkipped.Inc()
	}
}

func (m *Metrics) animationCancelled() {
	if m != nil {
		m.animationsCancelled.Inc()
	}
}
