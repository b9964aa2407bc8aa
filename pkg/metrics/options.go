package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager before its collectors are registered.
type Option func(*Manager)

// WithNamespace replaces the "promosim" metric prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "engine" subsystem of run and sweep metrics.
// HTTP and system metrics keep their own subsystems.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithRunBuckets sets the millisecond buckets of the run duration histogram.
// Buckets must be strictly increasing; anything else keeps the defaults.
func WithRunBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if validBuckets(buckets) {
			m.runBuckets = slices.Clone(buckets)
		}
	}
}

// WithHTTPBuckets sets the millisecond buckets of the request duration histogram.
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if validBuckets(buckets) {
			m.httpBuckets = slices.Clone(buckets)
		}
	}
}

func validBuckets(buckets []float64) bool {
	if len(buckets) == 0 {
		return false
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}

// WithMetricsEnabled toggles recording. Collectors are registered either way.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithConstLabels attaches labels to every collector, e.g. {"env": "dev"}.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) > 0 {
			m.constLabels = prometheus.Labels(labels)
		}
	}
}

// WithPrometheusRegistry registers collectors on registry instead of the
// Prometheus default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
