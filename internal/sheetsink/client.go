package sheetsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/hours-portal/internal/submission"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	Timeout time.Duration
}

// Client posts submission records to a spreadsheet-backed web endpoint.
// The endpoint's reply is not a reliable acknowledgment, so any response
// counts as sent; only transport failures are errors.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *Client) Send(ctx context.Context, endpoint string, records []submission.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal submission records: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("posting submission to spreadsheet",
		"endpoint", endpoint,
		"records", len(records),
		"bytes", len(payload))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("spreadsheet endpoint answered with an error status",
			"endpoint", endpoint,
			"status", resp.StatusCode)
	}
	return nil
}
