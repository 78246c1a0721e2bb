package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/draft"
	"github.com/rinkhq/faceoff/go/internal/models"
)

// DraftHandler serves the draft engine endpoints
type DraftHandler struct {
	app  *draft.App
	wake Waker
}

func NewDraftHandler(app *draft.App, wake Waker) *DraftHandler {
	return &DraftHandler{app: app, wake: wake}
}

func (h *DraftHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/drafts", h.createDraft)
	mux.HandleFunc("GET /api/drafts", h.listDrafts)
	mux.HandleFunc("GET /api/drafts/{id}", h.getDraft)
	mux.HandleFunc("GET /api/drafts/{id}/state", h.getState)
	mux.HandleFunc("GET /api/drafts/{id}/picks", h.getPicks)
	mux.HandleFunc("POST /api/drafts/{id}/start", h.startDraft)
	mux.HandleFunc("POST /api/drafts/{id}/pause", h.pauseDraft)
	mux.HandleFunc("POST /api/drafts/{id}/resume", h.resumeDraft)
	mux.HandleFunc("POST /api/drafts/{id}/cancel", h.cancelDraft)
	mux.HandleFunc("POST /api/drafts/{id}/picks", h.makePick)
}

func (h *DraftHandler) createDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Season      string               `json:"season"`
		Settings    models.DraftSettings `json:"settings"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.app.CreateDraft(r.Context(), draft.CreateDraftRequest{
		ID:       uuid.New(),
		Season:   req.Season,
		Settings: req.Settings,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *DraftHandler) listDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.app.ListDrafts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, drafts)
}

func (h *DraftHandler) getDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.app.GetDraft(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// getState returns the draft, its board, and the slot on the clock in one
// response for live clients syncing after reconnect.
func (h *DraftHandler) getState(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.app.GetDraft(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	picks, err := h.app.GetDraftPicks(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	var current *models.DraftPick
	if d.Status == models.DraftStatusInProgress {
		current, err = h.app.GetCurrentPick(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"draft":        d,
		"picks":        picks,
		"current_pick": current,
	})
}

func (h *DraftHandler) getPicks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if roundStr := r.URL.Query().Get("round"); roundStr != "" {
		round, err := strconv.Atoi(roundStr)
		if err != nil {
			respondBadRequest(w, "invalid round")
			return
		}
		picks, err := h.app.GetDraftPicksByRound(r.Context(), id, round)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, picks)
		return
	}

	picks, err := h.app.GetDraftPicks(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, picks)
}

func (h *DraftHandler) startDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.app.StartDraft(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	h.wake.Wake()
	respondJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) pauseDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeJSONOptional(w, r, &req) {
		return
	}
	d, err := h.app.PauseDraft(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	h.wake.Wake()
	respondJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) resumeDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.app.ResumeDraft(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	h.wake.Wake()
	respondJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) cancelDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.app.CancelDraft(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	h.wake.Wake()
	respondJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) makePick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		TeamID     uuid.UUID `json:"team_id"`
		ProspectID uuid.UUID `json:"prospect_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.app.MakePick(r.Context(), id, req.TeamID, req.ProspectID)
	if err != nil {
		respondError(w, err)
		return
	}
	h.wake.Wake()
	respondJSON(w, http.StatusOK, outcome)
}

func pathUUID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		respondBadRequest(w, "invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}
