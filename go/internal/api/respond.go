package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
)

// errorBody is the JSON error shape for every endpoint.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError maps the engine error taxonomy onto HTTP statuses. Errors
// without a taxonomy code are treated as bad requests when they came from
// validation, otherwise as internal errors.
func respondError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)

	var status int
	switch code {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidState,
		apperrors.CodeNotYourTurn,
		apperrors.CodeAlreadyDrafted,
		apperrors.CodeStaleTrade,
		apperrors.CodeWindowClosed,
		apperrors.CodeOwnershipConflict:
		status = http.StatusConflict
	case apperrors.CodeInvalidOwnership:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadRequest
	}

	respondJSON(w, status, errorBody{Code: string(code), Message: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// decodeJSONOptional is decodeJSON for requests whose fields are all
// optional: an empty body leaves dst zero-valued.
func decodeJSONOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	respondBadRequest(w, "invalid request body: "+err.Error())
	return false
}
