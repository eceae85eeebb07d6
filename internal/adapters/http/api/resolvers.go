// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ResolverHandler handles resolver collection requests.
type ResolverHandler struct {
	deps Dependencies
}

// NewResolverHandler creates a new resolver handler.
func NewResolverHandler(deps Dependencies) *ResolverHandler {
	return &ResolverHandler{deps: deps}
}

// HandleGetResolvers handles GET /resolvers requests.
func (h *ResolverHandler) HandleGetResolvers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Resolvers(r.Context()))
}
