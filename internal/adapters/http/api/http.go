// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidyaops/campusboard/internal/domain/aggregate"
	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/internal/domain/types"
)

// Snapshot mirrors the read shape returned by dashboard queries.
type Snapshot = aggregate.Snapshot

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ingest runs a batch of raw rows through the pipeline.
	Ingest(ctx context.Context, rows []model.RawRow) (types.BatchResult, error)

	// Read operations expose the aggregated report.
	Snapshot(ctx context.Context) *Snapshot
	Campuses(ctx context.Context, rankByScore bool) []model.Campus
	Resolvers(ctx context.Context) []model.Resolver
	Evaluations(ctx context.Context) []model.Evaluation
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	ingestHandler      *IngestHandler
	dashboardHandler   *DashboardHandler
	campusHandler      *CampusHandler
	resolverHandler    *ResolverHandler
	evaluationsHandler *EvaluationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		ingestHandler:      NewIngestHandler(deps),
		dashboardHandler:   NewDashboardHandler(deps),
		campusHandler:      NewCampusHandler(deps),
		resolverHandler:    NewResolverHandler(deps),
		evaluationsHandler: NewEvaluationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ingest", MetricsMiddleware(s.ingestHandler.HandleIngest, "ingest"))
	mux.HandleFunc("/dashboard/data", MetricsMiddleware(s.dashboardHandler.HandleData, "dashboard"))
	mux.HandleFunc("/campuses", MetricsMiddleware(s.campusHandler.HandleGetCampuses, "campuses"))
	mux.HandleFunc("/resolvers", MetricsMiddleware(s.resolverHandler.HandleGetResolvers, "resolvers"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationsHandler.HandleGetEvaluations, "evaluations"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
