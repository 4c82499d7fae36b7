// Package ai wraps the chat completion API that authors fresh puzzle batches.
package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrMissingAPIKey = errors.NewSentinel("OPENAI_API_KEY is required")
	ErrEmptyResponse = errors.NewSentinel("completion has no content")
)

const (
	DefaultModel = openai.GPT3Dot5Turbo1106
	MaxTokens    = 16000
)

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, e.g., for a proxy.
	BaseURL string
}

type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.With("source", "ai"),
	}, nil
}

// Complete sends prompt as a single user message and returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("model", c.model))
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.Wrap(ErrEmptyResponse, "create chat completion", slog.String("model", c.model))
	}

	c.logger.LogAttrs(ctx, slog.LevelInfo, "completion finished",
		slog.String("model", c.model),
		slog.Int("promptTokens", completion.Usage.PromptTokens),
		slog.Int("completionTokens", completion.Usage.CompletionTokens),
		slog.Duration("duration", time.Since(start)))
	return completion.Choices[0].Message.Content, nil
}
