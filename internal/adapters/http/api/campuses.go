// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CampusHandler handles campus collection requests.
type CampusHandler struct {
	deps Dependencies
}

// NewCampusHandler creates a new campus handler.
func NewCampusHandler(deps Dependencies) *CampusHandler {
	return &CampusHandler{deps: deps}
}

// HandleGetCampuses handles GET /campuses requests.
// With ?sort=score the collection is ranked by average score descending;
// otherwise first-seen order is preserved.
func (h *CampusHandler) HandleGetCampuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rankByScore := r.URL.Query().Get("sort") == "score"
	writeJSON(w, http.StatusOK, h.deps.Campuses(r.Context(), rankByScore))
}
