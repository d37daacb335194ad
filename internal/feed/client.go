package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"sprintd/internal/feed/interfaces"
	"sprintd/internal/models"
	"sprintd/internal/structures"
)

// Client pulls account, sprint and assignment records from the upstream
// dashboard API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(conf *structures.Config) interfaces.ClientInterface {
	timeout := conf.Feed.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(conf.Feed.UpstreamURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchAll pulls the three record sets that make up one feed snapshot.
// Any failed endpoint fails the whole fetch; a partial snapshot would
// produce phantom conflicts.
func (c *Client) FetchAll(ctx context.Context) (*models.FetchResult, error) {
	res := &models.FetchResult{FetchedAt: time.Now()}

	if err := c.getJSON(ctx, "/api/accounts", &res.Accounts); err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	if err := c.getJSON(ctx, "/api/sprints", &res.Sprints); err != nil {
		return nil, fmt.Errorf("fetch sprints: %w", err)
	}
	if err := c.getJSON(ctx, "/api/sprints/assignments", &res.Assignments); err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
