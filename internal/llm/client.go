// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wisteria-research/wisteria-tui/internal/config"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeRateLimited
	ErrTypeServer
	ErrTypeInvalidResponse
)

// ClientError represents an error from the generation API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrRateLimited     = &ClientError{Type: ErrTypeRateLimited, Message: "rate limited by the API"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "model returned unparseable output"}
)

// =============================================================================
// CLIENT
// =============================================================================

// ClientConfig holds tuning options for the client.
type ClientConfig struct {
	// Timeout per request; hypothesis generation can run long
	Timeout time.Duration

	// MaxRetries for transient failures (connection errors, 429s, 5xx).
	// Retries live here, in the payload side of the task engine; the
	// engine itself never retries.
	MaxRetries int

	// RetryDelay is the base backoff delay, doubled per attempt
	RetryDelay time.Duration

	// Temperature for generation requests; scoring always runs at 0
	Temperature float64
}

// DefaultClientConfig returns the default client tuning.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:     180 * time.Second,
		MaxRetries:  5,
		RetryDelay:  2 * time.Second,
		Temperature: 0.7,
	}
}

// Client talks to one OpenAI-compatible chat-completions endpoint.
// Safe for concurrent use; task payloads share a single instance.
type Client struct {
	server     config.ModelServer
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client for the given model server.
func NewClient(server config.ModelServer) *Client {
	return NewClientWithConfig(server, DefaultClientConfig())
}

// NewClientWithConfig creates a client with custom tuning.
func NewClientWithConfig(server config.ModelServer, cfg *ClientConfig) *Client {
	return &Client{
		server: server,
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// =============================================================================
// CHAT
// =============================================================================

// chat sends one system+user exchange and returns the assistant text.
// Transient failures are retried with exponential backoff.
func (c *Client) chat(ctx context.Context, system, user string, temperature *float64) (string, error) {
	var lastErr error
	delay := c.config.RetryDelay

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= 2
		}

		text, err := c.chatOnce(ctx, system, user, temperature)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var ce *ClientError
		if errors.As(err, &ce) {
			switch ce.Type {
			case ErrTypeConnection, ErrTypeRateLimited, ErrTypeServer:
				continue // retryable
			}
		}
		return "", err
	}
	return "", fmt.Errorf("giving up after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) chatOnce(ctx context.Context, system, user string, temperature *float64) (string, error) {
	reqBody := chatRequest{
		Model: c.server.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	url := c.server.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if key := c.server.APIKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: ctx.Err()}
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 500:
		return "", &ClientError{Type: ErrTypeServer, Message: fmt.Sprintf("server error (HTTP %d)", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return "", &ClientError{Type: ErrTypeUnknown, Message: fmt.Sprintf("unexpected HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if parsed.Error != nil {
		return "", &ClientError{Type: ErrTypeServer, Message: "API error: " + parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response contained no choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}
