package core

import (
	"net/http"
)

// MetricsHandler serves the top-k endpoint hit counts as JSON.
// Endpoint: GET /metrics
// Authenticated: No, gated by an IP allow-list
func (a *App) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.Config()

	// A disabled endpoint is indistinguishable from a missing one.
	if !cfg.Metrics.Activated || a.MetricsSketch() == nil {
		writeJsonError(w, errorNotFound)
		return
	}

	ip := clientIP(r, cfg.Server.ClientIpProxyHeader)

	// Exact match only, no CIDR ranges.
	allowed := false
	for _, allowedIP := range cfg.Metrics.AllowedIPs {
		if allowedIP == ip {
			allowed = true
			break
		}
	}
	if !allowed {
		writeJsonError(w, errorNotFound)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkMetrics,
			Message: "Top endpoints",
		},
		Data: a.MetricsSketch().Snapshot(),
	})
}
