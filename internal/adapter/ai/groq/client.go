// Package groq implements translation and intent extraction on top of Groq's
// OpenAI-compatible chat completion API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/infrastructure/circuitbreaker"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.2
)

// ErrEmptyResponse is returned when the completion carries no choices.
var ErrEmptyResponse = errors.New("groq: empty choices in response")

// ChatCompleter sends one system + user exchange and returns the reply text.
// *Client implements it; tests substitute stubs.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Config holds the client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// Client is a single-turn chat client. It is safe for concurrent use.
type Client struct {
	client      oai.Client
	model       string
	temperature float64
	breaker     *circuitbreaker.Breaker
	log         *zap.Logger
}

// NewClient constructs a Groq chat client. A nil breaker disables breaker protection.
func NewClient(cfg Config, breaker *circuitbreaker.Breaker, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: apiKey must not be empty")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if breaker == nil {
		breaker = circuitbreaker.Disabled("groq")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		client:      oai.NewClient(reqOpts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		breaker:     breaker,
		log:         log,
	}, nil
}

// Complete implements ChatCompleter.
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(userText),
		},
		Temperature: param.NewOpt(c.temperature),
	}

	start := time.Now()
	resp, err := circuitbreaker.ExecuteWithResult(ctx, c.breaker, func(ctx context.Context) (*oai.ChatCompletion, error) {
		return c.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.log.Debug("Groq completion finished",
		zap.String("model", c.model),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	return resp.Choices[0].Message.Content, nil
}
