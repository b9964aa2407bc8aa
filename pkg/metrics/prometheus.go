// Package metrics provides Prometheus metrics for the promotion simulator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default histogram buckets in milliseconds. A run of 100 individuals takes
// well under a millisecond; requests add JSON encoding on top.
var (
	defaultRunBuckets  = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}
	defaultHTTPBuckets = []float64{0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500}
)

// Manager owns every collector the simulator exports.
type Manager struct {
	namespace   string
	subsystem   string
	runBuckets  []float64
	httpBuckets []float64
	constLabels prometheus.Labels
	enabled     bool
	registry    prometheus.Registerer

	// Engine metrics
	simulationsTotal   *prometheus.CounterVec
	simulationErrors   *prometheus.CounterVec
	simulationDuration *prometheus.HistogramVec
	grandTotal         *prometheus.GaugeVec
	layerRequiredAvg   *prometheus.GaugeVec
	layerTotalAvg      *prometheus.GaugeVec
	winsTotal          *prometheus.CounterVec
	sweepsTotal        *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "promosim",
		subsystem:   "engine",
		runBuckets:  defaultRunBuckets,
		httpBuckets: defaultHTTPBuckets,
		constLabels: prometheus.Labels{},
		enabled:     true,
		registry:    prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.simulationsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "simulations_total",
		Help:        "Total number of completed simulation runs by mode",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.simulationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "simulation_errors_total",
		Help:        "Total number of rejected simulation runs by mode and error kind",
		ConstLabels: m.constLabels,
	}, []string{"mode", "kind"})

	m.simulationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "simulation_duration_milliseconds",
		Help:        "Wall time of one simulation run in milliseconds",
		Buckets:     m.runBuckets,
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.grandTotal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "grand_total_required_skill",
		Help:        "Sum of per-layer required-skill averages from the latest run",
		ConstLabels: m.constLabels,
	}, []string{"mode", "strategy"})

	m.layerRequiredAvg = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "layer_required_skill_average",
		Help:        "Required-skill average per layer from the latest run",
		ConstLabels: m.constLabels,
	}, []string{"mode", "strategy", "layer"})

	m.layerTotalAvg = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "layer_total_score_average",
		Help:        "Total-score average per layer from the latest run",
		ConstLabels: m.constLabels,
	}, []string{"mode", "strategy", "layer"})

	m.winsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "wins_total",
		Help:        "Runs won per strategy by grand total",
		ConstLabels: m.constLabels,
	}, []string{"mode", "winner"})

	m.sweepsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sweeps_total",
		Help:        "Total number of completed sweeps by mode",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.httpBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "errors_total",
		Help:        "HTTP error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// LayerAverage is the per-layer input to RecordLayerAverages.
type LayerAverage struct {
	Layer                string
	RequiredSkillAverage float64
	TotalScoreAverage    float64
}

// RecordSimulation counts a completed run and observes its duration.
func (m *Manager) RecordSimulation(mode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.simulationsTotal.WithLabelValues(mode).Inc()
	m.simulationDuration.WithLabelValues(mode).Observe(durationMs)
}

// RecordSimulationError counts a rejected run.
func (m *Manager) RecordSimulationError(mode, kind string) {
	if !m.enabled {
		return
	}
	m.simulationErrors.WithLabelValues(mode, kind).Inc()
}

// RecordGrandTotal sets the latest grand total for a strategy.
func (m *Manager) RecordGrandTotal(mode, strategy string, total float64) {
	if !m.enabled {
		return
	}
	m.grandTotal.WithLabelValues(mode, strategy).Set(total)
}

// RecordLayerAverages sets the latest per-layer averages for a strategy.
func (m *Manager) RecordLayerAverages(mode, strategy string, layers []LayerAverage) {
	if !m.enabled {
		return
	}
	for _, l := range layers {
		m.layerRequiredAvg.WithLabelValues(mode, strategy, l.Layer).Set(l.RequiredSkillAverage)
		m.layerTotalAvg.WithLabelValues(mode, strategy, l.Layer).Set(l.TotalScoreAverage)
	}
}

// RecordWin counts the winning side of a run.
func (m *Manager) RecordWin(mode, winner string) {
	if !m.enabled {
		return
	}
	m.winsTotal.WithLabelValues(mode, winner).Inc()
}

// RecordSweep counts a completed sweep.
func (m *Manager) RecordSweep(mode string) {
	if !m.enabled {
		return
	}
	m.sweepsTotal.WithLabelValues(mode).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets the memory and goroutine gauges.
func (m *Manager) UpdateSystem(allocBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(allocBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Default returns the process-wide manager registered on GetRegistry.
func Default() *Manager { return globalManager }

// GetRegistry returns the custom registry backing the default manager.
func GetRegistry() *prometheus.Registry { return customRegistry }

// RecordSimulation records on the default manager.
func RecordSimulation(mode string, durationMs float64) {
	globalManager.RecordSimulation(mode, durationMs)
}

// RecordSimulationError records on the default manager.
func RecordSimulationError(mode, kind string) { globalManager.RecordSimulationError(mode, kind) }

// RecordGrandTotal records on the default manager.
func RecordGrandTotal(mode, strategy string, total float64) {
	globalManager.RecordGrandTotal(mode, strategy, total)
}

// RecordLayerAverages records on the default manager.
func RecordLayerAverages(mode, strategy string, layers []LayerAverage) {
	globalManager.RecordLayerAverages(mode, strategy, layers)
}

// RecordWin records on the default manager.
func RecordWin(mode, winner string) { globalManager.RecordWin(mode, winner) }

// RecordSweep records on the default manager.
func RecordSweep(mode string) { globalManager.RecordSweep(mode) }

// RecordHTTPRequest records on the default manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records on the default manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem records on the default manager.
func UpdateSystem(allocBytes uint64, goroutines int) {
	globalManager.UpdateSystem(allocBytes, goroutines)
}
