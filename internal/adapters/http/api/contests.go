package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/contestboard/internal/domain/input"
	"github.com/okian/contestboard/internal/domain/model"
)

// ContestsHandler exposes the contest cache.
type ContestsHandler struct {
	deps Dependencies
}

// NewContestsHandler creates a new contests handler.
func NewContestsHandler(deps Dependencies) *ContestsHandler {
	return &ContestsHandler{deps: deps}
}

type contestResponse struct {
	ContestID string            `json:"contest_id"`
	Title     string            `json:"title,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
	Ranklist  []model.RankEntry `json:"ranklist"`
}

type clearResponse struct {
	Dropped int `json:"dropped"`
}

// HandleContest handles GET and DELETE /contests/{contest_id} requests.
func (h *ContestsHandler) HandleContest(w http.ResponseWriter, r *http.Request) {
	const op = "api.contest"
	id := strings.TrimPrefix(r.URL.Path, "/contests/")
	if valid, _ := input.ParseContestIDs(id); len(valid) != 1 || valid[0] != id {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		data, err := h.deps.Contest(r.Context(), id)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, contestResponse{
			ContestID: data.ContestID,
			Title:     data.Title,
			FetchedAt: data.FetchedAt,
			Ranklist:  data.Ranklist,
		})
	case http.MethodDelete:
		if !h.deps.Invalidate(r.Context(), id) {
			writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// HandleClear handles DELETE /contests requests.
func (h *ContestsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Dropped: h.deps.Clear(r.Context())})
}
