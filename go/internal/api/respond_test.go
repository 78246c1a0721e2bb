package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
)

func TestRespondError_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("draft: %w", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"invalid state", fmt.Errorf("paused: %w", apperrors.ErrInvalidState), http.StatusConflict, "INVALID_STATE"},
		{"not your turn", fmt.Errorf("turn: %w", apperrors.ErrNotYourTurn), http.StatusConflict, "NOT_YOUR_TURN"},
		{"already drafted", fmt.Errorf("taken: %w", apperrors.ErrAlreadyDrafted), http.StatusConflict, "ALREADY_DRAFTED"},
		{"stale trade", fmt.Errorf("drift: %w", apperrors.ErrStaleTrade), http.StatusConflict, "STALE_TRADE"},
		{"window closed", fmt.Errorf("late: %w", apperrors.ErrWindowClosed), http.StatusConflict, "WINDOW_CLOSED"},
		{"invalid ownership", fmt.Errorf("owner: %w", apperrors.ErrInvalidOwnership), http.StatusUnprocessableEntity, "INVALID_OWNERSHIP"},
		{"plain validation error", fmt.Errorf("rounds must be greater than 0"), http.StatusBadRequest, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tc.code != "" {
				assert.Equal(t, tc.code, body.Code)
			}
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestDecodeJSON_RejectsGarbage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)

	var dst struct{ Season string }
	ok := decodeJSON(rec, req, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeJSONOptional(t *testing.T) {
	t.Parallel()

	type pauseBody struct {
		Reason string `json:"reason"`
	}

	t.Run("empty body is fine", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/drafts/x/pause", nil)

		var dst pauseBody
		ok := decodeJSONOptional(rec, req, &dst)
		assert.True(t, ok)
		assert.Empty(t, dst.Reason)
	})

	t.Run("body is decoded when present", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/drafts/x/pause",
			strings.NewReader(`{"reason":"commissioner timeout"}`))

		var dst pauseBody
		ok := decodeJSONOptional(rec, req, &dst)
		assert.True(t, ok)
		assert.Equal(t, "commissioner timeout", dst.Reason)
	})

	t.Run("garbage is still rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/drafts/x/pause",
			strings.NewReader(`{"reason":`))

		var dst pauseBody
		ok := decodeJSONOptional(rec, req, &dst)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
