// Package inference holds the single call this system makes to a locally
// hosted, OpenAI-compatible language model endpoint.
package inference

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/chatportal/chatportal-backend/internal/config"
)

// UnavailableMessage is stored in place of model output whenever the
// inference endpoint cannot be reached. Callers degrade to it instead of
// surfacing an HTTP error.
const UnavailableMessage = "The assistant is currently unavailable. Please try again later."

const defaultTemperature = 0.7

// Message is one role/content pair in a completion request.
type Message struct {
	Role    string
	Content string
}

// Completer issues a single chat completion. Implementations do not retry,
// backoff, or stream.
type Completer interface {
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// Client talks to an OpenAI-compatible endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg config.InferenceConfig) *Client {
	// Local inference servers ignore the key but the client requires one
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Complete sends the ordered messages and returns the first completion's
// text. Connection failures, timeouts, and non-2xx responses all come back
// as plain errors.
func (c *Client) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: defaultTemperature,
		MaxTokens:   maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
