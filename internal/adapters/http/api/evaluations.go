// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// EvaluationsHandler handles evaluation listing requests.
type EvaluationsHandler struct {
	deps Dependencies
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps Dependencies) *EvaluationsHandler {
	return &EvaluationsHandler{deps: deps}
}

// HandleGetEvaluations handles GET /evaluations requests. Evaluations are
// returned in original ingestion order.
func (h *EvaluationsHandler) HandleGetEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Evaluations(r.Context()))
}
