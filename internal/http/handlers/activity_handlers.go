package handlers

import (
	"net/http"
	"strconv"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 500
)

// GetActivityHandler godoc
// @Summary Recent catalog changes
// @Tags activity
// @Produce json
// @Param limit query int false "Number of entries (default 20, max 500)"
// @Success 200 {array} activity.Entry
// @Failure 400 {string} string "Invalid limit"
// @Failure 500 {string} string "Internal error"
// @Router /activity [get]
func GetActivityHandler(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultActivityLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(v, maxActivityLimit)
	}

	entries, err := productService.Activity(r.Context(), limit)
	if err != nil {
		internalError(w, r, "could not fetch activity", err)
		return
	}
	respond(w, r, http.StatusOK, entries)
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
