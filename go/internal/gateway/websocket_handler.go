package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles websocket upgrade requests for live event feeds
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{connectionManager: cm}
}

// HandleLiveConnection handles websocket connections. With a draft_id the
// client joins that draft's pool; without one it joins the league feed and
// sees every event.
func (h *WebSocketHandler) HandleLiveConnection(w http.ResponseWriter, r *http.Request) {
	topic := LeagueFeed
	if draftIDStr := r.URL.Query().Get("draft_id"); draftIDStr != "" {
		draftID, err := uuid.Parse(draftIDStr)
		if err != nil {
			http.Error(w, "invalid draft_id format", http.StatusBadRequest)
			return
		}
		topic = draftID
	}

	// In production the user would come from a session or token.
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	if err := h.connectionManager.UpgradeConnection(w, r, userID, topic); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic.String()).
			Str("user_id", userID).
			Msg("failed to upgrade websocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	total, topics := h.connectionManager.Stats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total_connections": total,
		"topics":            topics,
	})
}

// RegisterRoutes registers websocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/live", h.HandleLiveConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
