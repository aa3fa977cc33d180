// Package classifier calls the remote risk-tier model service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// Client implements domain.Classifier against the remote model's HTTP API.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a remote classifier client.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict submits a feature vector and returns the predicted risk tier. The
// label set is owned by the remote model; it is passed through unvalidated.
func (c *Client) Predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	payload, err := json.Marshal(features)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Prediction{}, fmt.Errorf("classifier error: status %d: %s", resp.StatusCode, body)
	}

	var modelResp response
	if err := json.NewDecoder(resp.Body).Decode(&modelResp); err != nil {
		return domain.Prediction{}, fmt.Errorf("decode response: %w", err)
	}

	if !modelResp.Success {
		if modelResp.Error == "" {
			modelResp.Error = "classifier reported failure without detail"
		}
		return domain.Prediction{}, errors.New(modelResp.Error)
	}

	return domain.Prediction{Label: modelResp.Prediction}, nil
}

// Remote model response envelope.
type response struct {
	Success    bool   `json:"success"`
	Prediction string `json:"prediction"`
	Error      string `json:"error"`
}
