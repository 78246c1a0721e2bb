package api

import (
	"context"
	"net/http"

	"github.com/rinkhq/faceoff/go/clients/contentgen"
)

// ContentGenerator is the external content collaborator. Generation is
// fully delegated; the API only proxies request payloads through.
type ContentGenerator interface {
	GenerateCommentary(ctx context.Context, req contentgen.CommentaryRequest) (*contentgen.TextResponse, error)
	GenerateRecap(ctx context.Context, req contentgen.RecapRequest) (*contentgen.TextResponse, error)
	GenerateHeadshot(ctx context.Context, req contentgen.HeadshotRequest) (*contentgen.ImageResponse, error)
}

// ContentHandler proxies content generation requests to the external
// service. Mounted only when a generator is configured.
type ContentHandler struct {
	generator ContentGenerator
}

func NewContentHandler(generator ContentGenerator) *ContentHandler {
	return &ContentHandler{generator: generator}
}

func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/content/commentary", h.commentary)
	mux.HandleFunc("POST /api/content/recap", h.recap)
	mux.HandleFunc("POST /api/content/headshot", h.headshot)
}

func (h *ContentHandler) commentary(w http.ResponseWriter, r *http.Request) {
	var req contentgen.CommentaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.generator.GenerateCommentary(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ContentHandler) recap(w http.ResponseWriter, r *http.Request) {
	var req contentgen.RecapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.generator.GenerateRecap(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ContentHandler) headshot(w http.ResponseWriter, r *http.Request) {
	var req contentgen.HeadshotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.generator.GenerateHeadshot(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
