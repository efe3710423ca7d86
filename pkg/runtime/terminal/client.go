package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudforge/stack-advisor/pkg/models/api"
	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

// Client talks to a running advisor server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Submit(ctx context.Context, req api.OptimizeRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/optimizations", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to submit optimization: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("submit rejected with status %d", resp.StatusCode)
	}

	var ack api.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	return ack.ID, nil
}

func (c *Client) Status(ctx context.Context, id string) (api.StatusResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/optimizations/"+id, nil)
	if err != nil {
		return api.StatusResponse{}, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return api.StatusResponse{}, fmt.Errorf("failed to poll optimization: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var status api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return api.StatusResponse{}, fmt.Errorf("failed to decode status response: %w", err)
	}
	return status, nil
}

// Wait polls until the request reaches a terminal state or ctx expires.
func (c *Client) Wait(ctx context.Context, id string, interval time.Duration, progress func(status string)) (api.StatusResponse, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		status, err := c.Status(ctx, id)
		if err != nil {
			return api.StatusResponse{}, err
		}
		if status.Status != last && progress != nil {
			progress(status.Status)
			last = status.Status
		}
		if s := domain.RequestStatus(status.Status); s.Terminal() || s == domain.StatusNotFound {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return api.StatusResponse{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
