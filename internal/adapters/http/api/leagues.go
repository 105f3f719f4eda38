package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
)

// LeaguesHandler accepts league snapshots and serves their reports.
type LeaguesHandler struct {
	deps       Batches
	maxPlayers int
}

// NewLeaguesHandler creates a new leagues handler.
func NewLeaguesHandler(deps Batches, maxPlayers int) *LeaguesHandler {
	return &LeaguesHandler{deps: deps, maxPlayers: maxPlayers}
}

// HandleSubmit handles POST /v1/leagues. A new snapshot is answered with 202,
// a known one with 200 and the existing report id.
func (h *LeaguesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_league"
	var l batch.League
	if err := decode(op, r, &l); err != nil {
		fail(w, err)
		return
	}
	switch {
	case strings.TrimSpace(l.ID) == "":
		fail(w, WrapKind(op, ErrBadRequest, fmt.Errorf("missing league_id")))
		return
	case l.AsOf.IsZero():
		fail(w, WrapKind(op, ErrBadRequest, fmt.Errorf("missing as_of")))
		return
	case len(l.Players) > h.maxPlayers:
		fail(w, WrapKind(op, ErrTooLarge, fmt.Errorf("%d players, limit %d", len(l.Players), h.maxPlayers)))
		return
	}
	if err := l.Validate(); err != nil {
		fail(w, Wrap(op, err))
		return
	}

	sub, err := h.deps.SubmitLeague(r.Context(), &l)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	status := http.StatusAccepted
	if sub.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, sub)
}

// HandleReport handles GET /v1/reports/{id}.
func (h *LeaguesHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		fail(w, NewKind(op, ErrBadRequest))
		return
	}
	rep, err := h.deps.Report(r.Context(), id)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
