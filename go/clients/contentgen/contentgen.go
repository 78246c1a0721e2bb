package contentgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rinkhq/faceoff/go/clients"
)

// Client talks to the external content generation service. The service is a
// pure collaborator: we send it a context payload and get back opaque text
// or image content; none of the generation logic lives here.
type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL, apiKey string) *Client {
	client := &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return client
}

// CommentaryRequest carries the pick context for live draft commentary.
type CommentaryRequest struct {
	DraftID      string `json:"draft_id"`
	TeamName     string `json:"team_name"`
	PlayerName   string `json:"player_name"`
	Position     string `json:"position"`
	Round        int    `json:"round"`
	OverallPick  int    `json:"overall_pick"`
	ExtraContext string `json:"extra_context,omitempty"`
}

// RecapRequest carries the inputs for a round or full-draft recap.
type RecapRequest struct {
	DraftID string          `json:"draft_id"`
	Round   int             `json:"round,omitempty"`
	Picks   json.RawMessage `json:"picks"`
}

// HeadshotRequest asks for a generated player headshot image.
type HeadshotRequest struct {
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name,omitempty"`
	Position   string `json:"position,omitempty"`
	Style      string `json:"style,omitempty"`
}

// TextResponse is the generated text content.
type TextResponse struct {
	Content string `json:"content"`
}

// ImageResponse points at a generated image.
type ImageResponse struct {
	URL string `json:"url"`
}

func (c *Client) GenerateCommentary(ctx context.Context, req CommentaryRequest) (*TextResponse, error) {
	body, err := c.PostJSON(ctx, "/v1/commentary", req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate commentary: %w", err)
	}

	var resp TextResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse commentary response: %w", err)
	}
	return &resp, nil
}

func (c *Client) GenerateRecap(ctx context.Context, req RecapRequest) (*TextResponse, error) {
	body, err := c.PostJSON(ctx, "/v1/recap", req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recap: %w", err)
	}

	var resp TextResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse recap response: %w", err)
	}
	return &resp, nil
}

func (c *Client) GenerateHeadshot(ctx context.Context, req HeadshotRequest) (*ImageResponse, error) {
	body, err := c.PostJSON(ctx, "/v1/headshot", req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate headshot: %w", err)
	}

	var resp ImageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse headshot response: %w", err)
	}
	return &resp, nil
}
