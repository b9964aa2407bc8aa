package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/promosim/pkg/metrics"
)

// HealthHandler handles health check requests by serving the metrics registry.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a health handler over gatherer. A nil gatherer
// uses the process-wide metrics registry.
func NewHealthHandler(gatherer prometheus.Gatherer) *HealthHandler {
	if gatherer == nil {
		gatherer = metrics.GetRegistry()
	}
	return &HealthHandler{metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})}
}

// HandleHealth handles GET /healthz with the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
