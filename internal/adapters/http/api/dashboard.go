// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// DashboardHandler serves the full aggregate snapshot consumed by the
// dashboard frontend.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleData handles GET /dashboard/data requests.
func (h *DashboardHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Snapshot(r.Context()))
}
