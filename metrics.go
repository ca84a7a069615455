package hxtoast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hxtoast").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Metrics holds the Prometheus collectors for toast activity.
//
// Collectors:
//   - hxtoast_toasts_added_total: toasts added, by kind ("inline" for inline renderers)
//   - hxtoast_toasts_closed_total: toasts removed, including scope teardown
//   - hxtoast_toasts_active: toasts currently held across all scopes
//   - hxtoast_scopes_active: open provider scopes
type Metrics struct {
	addedTotal   *prometheus.CounterVec
	closedTotal  prometheus.Counter
	activeToasts prometheus.Gauge
	activeScopes prometheus.Gauge
}

// NewMetrics registers the collectors described by cfg.
// It panics if registration fails, like promauto.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "hxtoast"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		addedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_added_total",
			Help:        "Total number of toasts added",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind"}),

		closedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_closed_total",
			Help:        "Total number of toasts removed",
			ConstLabels: cfg.ConstLabels,
		}),

		activeToasts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_active",
			Help:        "Number of toasts currently held",
			ConstLabels: cfg.ConstLabels,
		}),

		activeScopes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "scopes_active",
			Help:        "Number of open toast scopes",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func (m *Metrics) added(s Strategy) {
	m.addedTotal.WithLabelValues(s.String()).Inc()
	m.activeToasts.Inc()
}

func (m *Metrics) closed(n int) {
	m.closedTotal.Add(float64(n))
	m.activeToasts.Sub(float64(n))
}

func (m *Metrics) scopeOpened() { m.activeScopes.Inc() }

func (m *Metrics) scopeClosed() { m.activeScopes.Dec() }
