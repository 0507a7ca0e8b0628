// internal/openrouter/client.go

// Package openrouter talks to the OpenRouter chat-completions API. OpenRouter
// is OpenAI-compatible, so the client is a thin wrapper over the go-openai SDK
// pointed at the OpenRouter base URL. Model ids use the provider/model form,
// e.g. "anthropic/claude-3-opus".
//
// The client is the council's query provider: every transport failure
// (non-2xx, timeout, connection error, malformed payload) is normalized to a
// nil response, and no retries happen here.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mwiater/synod/internal/council"
	"github.com/mwiater/synod/internal/logging"
)

const (
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	defaultTimeout = 120 * time.Second
)

// Config holds client settings.
type Config struct {
	// APIKey is the OpenRouter API key (required).
	APIKey string
	// BaseURL overrides the API root; used by tests.
	BaseURL string
	// Timeout bounds each request. Zero means the default.
	Timeout time.Duration
}

// Client issues single-model chat requests. It implements council.Querier and
// is safe for concurrent use.
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// New builds a client from the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		timeout: cfg.Timeout,
	}, nil
}

// QuerySingle sends one chat request to one model. Any failure returns nil:
// the caller treats nil as "this model did not answer" and carries on. A
// response whose content is empty is still a response, not a failure.
func (c *Client) QuerySingle(ctx context.Context, model string, messages []council.Message) *council.ModelResponse {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		logging.LogEvent("[OPENROUTER] %s: query failed: %v", model, err)
		return nil
	}
	if len(resp.Choices) == 0 {
		logging.LogEvent("[OPENROUTER] %s: response has no choices", model)
		return nil
	}

	message := resp.Choices[0].Message
	result := &council.ModelResponse{
		Model:   model,
		Content: message.Content,
	}
	if message.ReasoningContent != "" {
		if raw, err := json.Marshal(message.ReasoningContent); err == nil {
			result.Reasoning = raw
		}
	}
	return result
}
