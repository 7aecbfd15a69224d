// Package textgen calls the hosted text-generation edge function that backs
// the site chatbot.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
)

const (
	defaultTimeout              = 8 * time.Second
	defaultMaxTokens            = 600
	defaultTemperature          = 0.7
	responseBodyReadLimit int64 = 1024
)

var (
	errEndpointRequired = errors.New("text generation endpoint is required")
	errKeyRequired      = errors.New("text generation api key is required")
)

// Client posts chat requests to the edge function.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	maxTokens   int
	temperature float64
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// WithGeneration sets the token budget and sampling temperature.
func WithGeneration(maxTokens int, temperature float64) Option {
	return func(c *Client) {
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
		if temperature > 0 {
			c.temperature = temperature
		}
	}
}

// NewClient builds a client for endpoint authenticated with apiKey.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errEndpointRequired
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errKeyRequired
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		endpoint:    endpoint,
		apiKey:      apiKey,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Context describes what the assistant is talking about.
type Context struct {
	Name        string `json:"courseName"`
	Description string `json:"courseDescription"`
}

type chatRequest struct {
	Action   string      `json:"action"`
	Messages []Message   `json:"messages"`
	Context  Context     `json:"courseContext"`
	Options  chatOptions `json:"options"`
}

type chatOptions struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// Generate sends the conversation and returns the generated reply. Any
// transport failure, non-200 status or unsuccessful payload is a DEPENDENCY error.
func (c *Client) Generate(ctx context.Context, messages []Message, chatCtx Context) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "text generation client not configured")
	}
	if len(messages) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "at least one message is required")
	}

	payload, err := json.Marshal(chatRequest{
		Action:   "chat",
		Messages: messages,
		Context:  chatCtx,
		Options:  chatOptions{MaxTokens: c.maxTokens, Temperature: c.temperature},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute chat request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "chat request failed")
	}

	var apiResp struct {
		Success bool   `json:"success"`
		Data    string `json:"data"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode chat response")
	}
	if !apiResp.Success || strings.TrimSpace(apiResp.Data) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "chat response unsuccessful").WithDetails(map[string]any{"error": apiResp.Error})
	}
	return apiResp.Data, nil
}
