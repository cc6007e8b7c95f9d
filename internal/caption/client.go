package caption

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the configuration for the caption source client.
type Config struct {
	APIURL  string        `json:"api_url"`
	Timeout time.Duration `json:"timeout"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("caption API URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// Client fetches caption tracks over HTTP from a timedtext-style endpoint.
// The endpoint contract: GET {APIURL}?v=<videoID> returns a Track JSON
// document, or status 404 when the video has no caption track.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new caption source client.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Fetch retrieves the caption track for videoID.
func (c *Client) Fetch(ctx context.Context, videoID string) (*Track, error) {
	endpoint := fmt.Sprintf("%s?v=%s", c.config.APIURL, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("caption request failed with status %d: %s", resp.StatusCode, string(body))
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var track Track
	if err := json.Unmarshal(responseBody, &track); err != nil {
		return nil, fmt.Errorf("failed to parse caption track: %w", err)
	}
	if track.VideoID == "" {
		track.VideoID = videoID
	}
	return &track, nil
}
