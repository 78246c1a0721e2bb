package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
	"github.com/rinkhq/faceoff/go/internal/trade"
)

// TradeHandler serves the trade engine endpoints
type TradeHandler struct {
	app *trade.App
}

func NewTradeHandler(app *trade.App) *TradeHandler {
	return &TradeHandler{app: app}
}

func (h *TradeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/trades", h.proposeTrade)
	mux.HandleFunc("GET /api/trades", h.listTrades)
	mux.HandleFunc("GET /api/trades/{id}", h.getTrade)
	mux.HandleFunc("POST /api/trades/{id}/accept", h.acceptTrade)
	mux.HandleFunc("POST /api/trades/{id}/reject", h.rejectTrade)
	mux.HandleFunc("POST /api/trades/{id}/cancel", h.cancelTrade)
}

func (h *TradeHandler) proposeTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromTeamID     uuid.UUID   `json:"from_team_id"`
		ToTeamID       uuid.UUID   `json:"to_team_id"`
		PlayersOffered []uuid.UUID `json:"players_offered"`
		PlayersWanted  []uuid.UUID `json:"players_wanted"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	proposed, err := h.app.ProposeTrade(r.Context(), trade.ProposeTradeRequest{
		ID:             uuid.New(),
		FromTeamID:     req.FromTeamID,
		ToTeamID:       req.ToTeamID,
		PlayersOffered: req.PlayersOffered,
		PlayersWanted:  req.PlayersWanted,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, proposed)
}

func (h *TradeHandler) listTrades(w http.ResponseWriter, r *http.Request) {
	if teamIDStr := r.URL.Query().Get("team_id"); teamIDStr != "" {
		teamID, err := uuid.Parse(teamIDStr)
		if err != nil {
			respondBadRequest(w, "invalid team_id")
			return
		}
		trades, err := h.app.ListTradesByTeam(r.Context(), teamID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, trades)
		return
	}

	status := models.TradeStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.TradeStatusPending
	}
	trades, err := h.app.ListTradesByStatus(r.Context(), status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trades)
}

func (h *TradeHandler) getTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.app.GetTrade(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *TradeHandler) acceptTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.app.AcceptTrade(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *TradeHandler) rejectTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.app.RejectTrade(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *TradeHandler) cancelTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.app.CancelTrade(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}
