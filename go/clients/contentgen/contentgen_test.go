package contentgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommentary(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq CommentaryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/commentary", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(TextResponse{Content: "With the first overall pick..."})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	resp, err := client.GenerateCommentary(context.Background(), CommentaryRequest{
		DraftID:     "d1",
		TeamName:    "Halifax Icebreakers",
		PlayerName:  "Emil Lindqvist",
		Position:    "C",
		Round:       1,
		OverallPick: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "With the first overall pick...", resp.Content)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Emil Lindqvist", gotReq.PlayerName)
}

func TestGenerateHeadshot(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/headshot", r.URL.Path)
		json.NewEncoder(w).Encode(ImageResponse{URL: "https://cdn.example.com/headshots/abc.png"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	resp, err := client.GenerateHeadshot(context.Background(), HeadshotRequest{PlayerName: "Emil Lindqvist"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/headshots/abc.png", resp.URL)
}

func TestClient_SurfacesUpstreamErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.GenerateRecap(context.Background(), RecapRequest{DraftID: "d1", Picks: json.RawMessage(`[]`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
