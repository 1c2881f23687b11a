package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := productService.Metrics(r.Context())
	if err != nil {
		internalError(w, r, "failed to fetch metrics", err)
		return
	}
	respond(w, r, http.StatusOK, m)
}
