package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/waiver"
)

// WaiverHandler serves the waiver engine endpoints
type WaiverHandler struct {
	app *waiver.App
}

func NewWaiverHandler(app *waiver.App) *WaiverHandler {
	return &WaiverHandler{app: app}
}

func (h *WaiverHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/waivers", h.waivePlayer)
	mux.HandleFunc("GET /api/waivers", h.listActive)
	mux.HandleFunc("GET /api/waivers/{id}", h.getClaim)
	mux.HandleFunc("GET /api/waivers/{id}/bids", h.listBids)
	mux.HandleFunc("POST /api/waivers/{id}/claims", h.claimPlayer)
	mux.HandleFunc("POST /api/waivers/{id}/cancel", h.cancelClaim)
	mux.HandleFunc("POST /api/waivers/process", h.processDue)
}

func (h *WaiverHandler) waivePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID uuid.UUID `json:"player_id"`
		TeamID   uuid.UUID `json:"team_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	claim, err := h.app.WaivePlayer(r.Context(), req.PlayerID, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, claim)
}

func (h *WaiverHandler) listActive(w http.ResponseWriter, r *http.Request) {
	claims, err := h.app.ListActiveClaims(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, claims)
}

func (h *WaiverHandler) getClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	claim, err := h.app.GetClaim(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, claim)
}

func (h *WaiverHandler) listBids(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	bids, err := h.app.ListBids(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bids)
}

func (h *WaiverHandler) claimPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		TeamID uuid.UUID `json:"team_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	claim, err := h.app.ClaimPlayer(r.Context(), id, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, claim)
}

func (h *WaiverHandler) cancelClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		TeamID uuid.UUID `json:"team_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	claim, err := h.app.CancelClaim(r.Context(), id, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, claim)
}

// processDue resolves every claim window past its cutoff. The processor
// loop does this on a schedule; the endpoint exists for admin use.
func (h *WaiverHandler) processDue(w http.ResponseWriter, r *http.Request) {
	processed, err := h.app.ProcessDueClaims(r.Context(), 100)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"processed": processed})
}
