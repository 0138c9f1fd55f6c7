// Package llm wraps the language model provider behind a small completion
// interface so handlers and tests never touch the SDK directly.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Classified upstream failures. Anything else from the provider collapses to
// a generic processing error at the handler layer.
var (
	ErrAuth        = errors.New("language model provider rejected credentials")
	ErrRateLimited = errors.New("language model provider is throttling requests")
)

// Params are the sampling parameters forwarded with every completion.
type Params struct {
	Temperature float64
	MaxTokens   int64
	TopP        float64
}

// Completer produces one completion text for a system prompt and the latest
// user message. No conversation history is carried; the caller rebuilds the
// system prompt every turn.
type Completer interface {
	Complete(ctx context.Context, system, user string, p Params) (string, error)
}

// Client is the OpenAI-backed Completer.
type Client struct {
	api   openai.Client
	model string
}

// NewClient builds a client for the configured model. baseURL may be empty
// to use the provider default, or point at any OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:   openai.NewClient(opts...),
		model: model,
	}
}

// Complete implements Completer via the chat completions API.
func (c *Client) Complete(ctx context.Context, system, user string, p Params) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(p.Temperature),
		MaxTokens:   openai.Int(p.MaxTokens),
		TopP:        openai.Float(p.TopP),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps provider HTTP failures onto the sentinel errors the handler
// layer translates into distinct status codes.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return fmt.Errorf("completion request failed: %w", err)
}
