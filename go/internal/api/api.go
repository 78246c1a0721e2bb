// Package api exposes the league engines over a JSON HTTP surface. Every
// handler decodes, delegates to an app layer, and maps taxonomy errors to
// stable {code,message} bodies.
package api

import (
	"net/http"
)

// Waker lets handlers nudge the draft orchestrator after operations that
// arm or move a pick clock.
type Waker interface {
	Wake()
}

// Handler bundles the app layers behind the HTTP surface.
type Handler struct {
	drafts  *DraftHandler
	trades  *TradeHandler
	waivers *WaiverHandler
	league  *LeagueHandler
	content *ContentHandler
}

func NewHandler(drafts *DraftHandler, trades *TradeHandler, waivers *WaiverHandler, league *LeagueHandler, content *ContentHandler) *Handler {
	return &Handler{
		drafts:  drafts,
		trades:  trades,
		waivers: waivers,
		league:  league,
		content: content,
	}
}

// RegisterRoutes mounts every endpoint on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	h.drafts.RegisterRoutes(mux)
	h.trades.RegisterRoutes(mux)
	h.waivers.RegisterRoutes(mux)
	h.league.RegisterRoutes(mux)
	if h.content != nil {
		h.content.RegisterRoutes(mux)
	}
}
