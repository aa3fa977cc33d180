// Package quakefeed fetches the raw seismic-event JSON collection from the
// upstream catalog endpoint.
package quakefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client implements dataset.Fetcher against an HTTP JSON endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a dataset fetch client.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchRecords retrieves the full raw collection. Each record stays an opaque
// JSON document so one malformed record cannot abort the whole payload; the
// normalizer decides record by record.
func (c *Client) FetchRecords(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("dataset endpoint error: status %d: %s", resp.StatusCode, body)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	c.logger.Debug("fetched raw records",
		"count", len(records),
		"duration", time.Since(start),
	)
	return records, nil
}
