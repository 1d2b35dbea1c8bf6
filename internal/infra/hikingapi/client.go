package hikingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/hiking-guide/internal/domain/edge"
	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
	"github.com/yanqian/hiking-guide/internal/domain/trail"
	apperrors "github.com/yanqian/hiking-guide/pkg/errors"
)

// Client calls the trail listing and recommendation endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. An empty baseURL falls back to the
// public backend origin.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = edge.DefaultAPIBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListTrails fetches GET /api/trails.
func (c *Client) ListTrails(ctx context.Context) ([]trail.Trail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/trails", nil)
	if err != nil {
		return nil, fmt.Errorf("build trails request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var trails []trail.Trail
	if err := c.do(req, "trails", &trails); err != nil {
		return nil, err
	}
	return trails, nil
}

// Recommend posts the hike description to POST /api/recommendation.
func (c *Client) Recommend(ctx context.Context, in trail.RecommendationRequest) (trail.RecommendationResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return trail.RecommendationResult{}, fmt.Errorf("encode recommendation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recommendation", bytes.NewReader(payload))
	if err != nil {
		return trail.RecommendationResult{}, fmt.Errorf("build recommendation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out trail.RecommendationResult
	if err := c.do(req, "recommendation", &out); err != nil {
		return trail.RecommendationResult{}, err
	}
	return out, nil
}

func (c *Client) do(req *http.Request, name string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstream, name+" request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apperrors.Wrap(apperrors.CodeUpstreamReply,
			fmt.Sprintf("%s request error: %s", name, resp.Status),
			fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.CodeUpstreamReply, "decode "+name+" response", err)
	}
	return nil
}

var _ safetyform.TrailAPI = (*Client)(nil)
