package api

import (
	"encoding/json"
	"net/http"

	service "github.com/okian/contestboard/internal/app"
)

// maxRequestBytes bounds a standings request body.
const maxRequestBytes = 1 << 20

// StandingsHandler handles standings computations.
type StandingsHandler struct {
	deps     Dependencies
	defaults service.Request
}

// NewStandingsHandler creates a new standings handler. Fields absent from a
// request body keep the values of defaults.
func NewStandingsHandler(deps Dependencies, defaults service.Request) *StandingsHandler {
	return &StandingsHandler{deps: deps, defaults: defaults}
}

// HandlePostStandings handles POST /standings requests. The body is a
// session request; the response carries every view. Per-contest fetch
// problems are part of a 200 response, only unusable input is a 400.
func (h *StandingsHandler) HandlePostStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_standings"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req := h.defaults
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest(op, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest(op, err))
		return
	}
	req.Trigger = "http"

	views, err := h.deps.Compute(r.Context(), req)
	if err != nil {
		if service.IsInputError(err) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
