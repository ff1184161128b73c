package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/config"
)

var (
	ErrRateLimited     = errors.New("completion API rate limited")
	ErrPaymentRequired = errors.New("completion API payment required")
	ErrTimeout         = errors.New("completion API timed out")
	ErrUnavailable     = errors.New("completion API unreachable")
	ErrEmptyChoices    = errors.New("completion API returned no choices")
)

// APIError is any other non-2xx answer. Body is kept for server-side logs only.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API returned %d: %s", e.StatusCode, e.Body)
}

// Client calls an OpenAI-compatible chat completions endpoint. One request per call, no retries.
type Client struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

func New(cfg *config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiURL: cfg.AIAPIURL,
		apiKey: cfg.AIAPIKey,
		model:  cfg.AIModel,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Complete(ctx context.Context, r Request) (*Completion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", ErrUnavailable)
	}

	payload := completionRequest{
		Model:    c.model,
		Messages: r.Messages,
		Tools:    r.Tools,
	}
	if len(r.Tools) > 0 {
		payload.ToolChoice = "auto"
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, ErrPaymentRequired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrEmptyChoices
	}

	choice := parsed.Choices[0]
	return &Completion{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
