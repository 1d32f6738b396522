package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

type client struct {
	http    *http.Client
	baseURL string
	token   string
	model   string
	limiter *rate.Limiter
	logger  *slog.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// errorResponse mirrors the service's failure payload. Details is present on
// some 429 responses and may carry a structured retry hint.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}

// New creates a generation client from the given configuration.
// Outbound requests are paced by a token-bucket limiter so the client does
// not provoke rate limiting under concurrent workflow load.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		http:    &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger.With("system", "upstream"),
	}
}

func (c *client) ModelVersion() string {
	return c.model
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("limiter wait: %w", err)
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/generate",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.decodeError(resp, raw)
	}

	var gen generateResponse
	if err := json.Unmarshal(raw, &gen); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return gen.Text, nil
}

// decodeError assembles an *Error from a non-200 response. The retry hint
// is taken from the structured error details when present, falling back to
// the Retry-After header. Malformed failure payloads still produce a usable
// Error carrying the status code.
func (c *client) decodeError(resp *http.Response, raw []byte) error {
	e := &Error{
		StatusCode: resp.StatusCode,
		RetryAfter: resp.Header.Get("Retry-After"),
	}

	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		e.Message = payload.Error.Message
		for _, d := range payload.Error.Details {
			if d.RetryDelay != "" {
				e.RetryAfter = d.RetryDelay
			}
		}
	}

	if e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
	}

	c.logger.Warn(
		"generation request failed",
		"status", e.StatusCode,
		"retry_after", e.RetryAfter,
	)

	return e
}
