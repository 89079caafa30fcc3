package jobresult

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches completed job results from the orchestrator. The engine
// itself never performs I/O; callers fetch once, up front, and own
// cancellation at this boundary.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client for the orchestrator at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves one job result via GET /api/jobs/{jobId}.
func (c *Client) Fetch(ctx context.Context, jobID string) (*JobResult, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("job id is required")
	}
	endpoint := c.BaseURL + "/api/jobs/" + url.PathEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch job %s: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch job %s: unexpected status %d", jobID, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", jobID, err)
	}
	return Decode(body)
}
