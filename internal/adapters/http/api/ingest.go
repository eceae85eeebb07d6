// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidyaops/campusboard/internal/domain/model"
)

// maxIngestBodyBytes bounds an ingest request body (16 MiB).
const maxIngestBodyBytes = 16 << 20

// ingestRequest mirrors the schema for POST /ingest. Each row is one form
// submission keyed by column header.
type ingestRequest struct {
	Rows []model.RawRow `json:"rows"`
}

func (r ingestRequest) validate() error {
	if len(r.Rows) == 0 {
		return errors.New("missing rows")
	}
	return nil
}

// IngestHandler handles batch ingestion requests.
type IngestHandler struct {
	deps Dependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps Dependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// HandleIngest handles POST /ingest requests. The batch is processed
// synchronously; the response carries per-batch acceptance counters.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req ingestRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res, err := h.deps.Ingest(r.Context(), req.Rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ingest_failed", err)
		return
	}

	status := http.StatusOK
	if res.NoData {
		// The batch carried no usable rows; nothing was aggregated.
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}
