// internal/ai/client.go
// Thin wrapper around the OpenAI chat completion API

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kiezswap/kiezswap-backend/internal/config"
)

var ErrEmptyResponse = errors.New("ai: model returned no choices")

// ChatClient is the single capability the matching pipeline needs from a
// language model: one prompt in, one text completion out. Constructed once
// and injected wherever needed.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewChatClient builds a ChatClient from configuration.
func NewChatClient(cfg *config.Config) ChatClient {
	return &openAIClient{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		model:       cfg.OpenAIModel,
		temperature: float32(cfg.OpenAITemperature),
		maxTokens:   cfg.OpenAIMaxTokens,
		timeout:     cfg.OpenAITimeout,
	}
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		modelCallDuration.Observe(time.Since(start).Seconds())
	}()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// IsQuotaError reports whether an error from the model provider indicates an
// exhausted quota or a billing problem. These are not worth retrying within
// the same request.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok {
			if code == "insufficient_quota" || code == "billing_not_active" {
				return true
			}
		}
		if apiErr.HTTPStatusCode == 429 {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "billing")
}
