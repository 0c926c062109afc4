package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/pragati/internal/domain/types"
	"github.com/okian/pragati/pkg/logger"
)

const maxBodyBytes = 64 << 10

// UpdatesHandler accepts submissions and serves the update history.
type UpdatesHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewUpdatesHandler creates a new updates handler.
func NewUpdatesHandler(deps Dependencies) *UpdatesHandler {
	return &UpdatesHandler{deps: deps, log: logger.Get().Named("api")}
}

// HandlePostUpdate handles POST /updates. The update is analyzed
// asynchronously; 202 means it was queued or already seen.
func (h *UpdatesHandler) HandlePostUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.updates"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req types.SubmitRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, errors.New("invalid JSON body")))
		return
	}

	resp, err := h.deps.Submit(r.Context(), req)
	if err != nil {
		h.log.Debug(r.Context(), "submission rejected", logger.String("team_member", req.TeamMember), logger.Error(err))
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// HandleGetHistory handles GET /history?limit=N.
func (h *UpdatesHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	if !allowGet(w, r) {
		return
	}
	limit, err := queryInt(op, r, "limit")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	hist, err := h.deps.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hist)
}
