package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rinkhq/faceoff/go/internal/models"
	"github.com/rinkhq/faceoff/go/internal/player"
	"github.com/rinkhq/faceoff/go/internal/prospect"
	"github.com/rinkhq/faceoff/go/internal/roster"
	"github.com/rinkhq/faceoff/go/internal/teams"
	"github.com/rinkhq/faceoff/go/internal/txlog"
)

// LeagueHandler serves teams, players, prospects, and the transaction log.
type LeagueHandler struct {
	teams     *teams.App
	players   *player.App
	roster    *roster.App
	prospects *prospect.App
	txlog     *txlog.App
}

func NewLeagueHandler(teamsApp *teams.App, playerApp *player.App, rosterApp *roster.App, prospectApp *prospect.App, txlogApp *txlog.App) *LeagueHandler {
	return &LeagueHandler{
		teams:     teamsApp,
		players:   playerApp,
		roster:    rosterApp,
		prospects: prospectApp,
		txlog:     txlogApp,
	}
}

func (h *LeagueHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/teams", h.createTeam)
	mux.HandleFunc("GET /api/teams", h.listTeams)
	mux.HandleFunc("GET /api/teams/{id}", h.getTeam)
	mux.HandleFunc("GET /api/teams/{id}/roster", h.getRoster)
	mux.HandleFunc("POST /api/teams/{id}/result", h.applyGameResult)
	mux.HandleFunc("GET /api/standings", h.standings)

	mux.HandleFunc("POST /api/players", h.createPlayer)
	mux.HandleFunc("GET /api/players", h.listPlayers)
	mux.HandleFunc("GET /api/players/{id}", h.getPlayer)
	mux.HandleFunc("PUT /api/players/{id}/availability", h.setAvailability)
	mux.HandleFunc("PUT /api/players/{id}/stats", h.updateStats)

	mux.HandleFunc("POST /api/prospects", h.createProspect)
	mux.HandleFunc("GET /api/prospects", h.listProspects)

	mux.HandleFunc("GET /api/transactions", h.listTransactions)
}

// Teams

func (h *LeagueHandler) createTeam(w http.ResponseWriter, r *http.Request) {
	var req teams.CreateTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	team, err := h.teams.CreateTeam(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (h *LeagueHandler) listTeams(w http.ResponseWriter, r *http.Request) {
	list, err := h.teams.ListTeams(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *LeagueHandler) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	team, err := h.teams.GetTeam(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *LeagueHandler) getRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	players, err := h.roster.GetRoster(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

func (h *LeagueHandler) applyGameResult(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Outcome teams.GameOutcome `json:"outcome"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	team, err := h.teams.ApplyGameResult(r.Context(), id, req.Outcome)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *LeagueHandler) standings(w http.ResponseWriter, r *http.Request) {
	list, err := h.teams.Standings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// Players

func (h *LeagueHandler) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req player.CreatePlayerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.players.CreatePlayer(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// listPlayers serves GET /api/players; ?free_agents=true narrows the list
// to unowned players.
func (h *LeagueHandler) listPlayers(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Player
		err  error
	)
	if r.URL.Query().Get("free_agents") == "true" {
		list, err = h.roster.ListFreeAgents(r.Context())
	} else {
		list, err = h.players.ListPlayers(r.Context())
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *LeagueHandler) getPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.players.GetPlayer(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *LeagueHandler) setAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Availability models.Availability `json:"availability"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.players.UpdateAvailability(r.Context(), id, req.Availability); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.players.GetPlayer(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *LeagueHandler) updateStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		SkaterStats *models.SkaterStats `json:"skater_stats,omitempty"`
		GoalieStats *models.GoalieStats `json:"goalie_stats,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var stats models.StatLine
	switch {
	case req.SkaterStats != nil && req.GoalieStats != nil:
		respondBadRequest(w, "provide either skater_stats or goalie_stats, not both")
		return
	case req.SkaterStats != nil:
		stats = req.SkaterStats
	case req.GoalieStats != nil:
		stats = req.GoalieStats
	default:
		respondBadRequest(w, "skater_stats or goalie_stats is required")
		return
	}

	if err := h.players.UpdateStats(r.Context(), id, stats); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.players.GetPlayer(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Prospects

func (h *LeagueHandler) createProspect(w http.ResponseWriter, r *http.Request) {
	var req prospect.CreateProspectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.prospects.CreateProspect(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *LeagueHandler) listProspects(w http.ResponseWriter, r *http.Request) {
	undraftedOnly := r.URL.Query().Get("undrafted") == "true"
	board, err := h.prospects.ListBoard(r.Context(), undraftedOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// Transaction log

func (h *LeagueHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	entries, err := h.txlog.Query(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func transactionFilter(r *http.Request) (txlog.QueryFilter, error) {
	var filter txlog.QueryFilter
	q := r.URL.Query()

	if raw := q.Get("team_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errInvalidParam("team_id")
		}
		filter.TeamID = &id
	}
	if raw := q.Get("player_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errInvalidParam("player_id")
		}
		filter.PlayerID = &id
	}
	if raw := q.Get("type"); raw != "" {
		filter.Type = models.TransactionType(raw)
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errInvalidParam("from")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errInvalidParam("to")
		}
		filter.To = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, errInvalidParam("limit")
		}
		filter.Limit = n
	}
	return filter, nil
}

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid %s parameter", name)
}
