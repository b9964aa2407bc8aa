package api

import (
	"net/http"
	"time"

	"github.com/okian/promosim/internal/domain/promotion"
)

// statsResponse adds the run total and drops an unset timestamp.
type statsResponse struct {
	Runs      map[promotion.Mode]int64 `json:"runs"`
	TotalRuns int64                    `json:"total_runs"`
	Failures  int64                    `json:"failures"`
	LastRunID string                   `json:"last_run_id,omitempty"`
	LastRunAt *time.Time               `json:"last_run_at,omitempty"`
}

// StatsHandler serves run counters.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	st := h.stats.GetStats()
	resp := statsResponse{
		Runs:      st.Runs,
		Failures:  st.Failures,
		LastRunID: st.LastRunID,
	}
	if resp.Runs == nil {
		resp.Runs = map[promotion.Mode]int64{}
	}
	for _, n := range resp.Runs {
		resp.TotalRuns += n
	}
	if !st.LastRunAt.IsZero() {
		at := st.LastRunAt.UTC()
		resp.LastRunAt = &at
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}
