package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"
)

// Messages API requires max_tokens on every request.
const anthropicDefaultMaxTokens = 1024

// AnthropicClient implements the Generator interface for Anthropic API
type AnthropicClient struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config) (*AnthropicClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for Anthropic provider")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicClient{
		client:  &client,
		model:   config.Model,
		timeout: config.Timeout,
	}, nil
}

// Name returns the provider name
func (c *AnthropicClient) Name() string {
	return string(ProviderAnthropic)
}

// Validate checks if the client configuration is valid
func (c *AnthropicClient) Validate() error {
	if c.client == nil {
		return fmt.Errorf("client is not initialized")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// Generate sends a message request to Anthropic API. The Messages API returns
// a single sequence, so NumSequences and RepetitionPenalty are not forwarded.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("client validation failed: %w", err)
	}

	maxTokens := opts.MaxLength
	if maxTokens == 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Temperature: anthropic.Float(opts.temperature()),
		Model:       anthropic.Model(c.model),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
		MaxTokens: int64(maxTokens),
	}
	if topP, ok := opts.topP(); ok {
		params.TopP = anthropic.Float(topP)
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API request failed: %w", err)
	}

	var sb strings.Builder
	for _, content := range resp.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	log.Debug("Anthropic generation finished",
		"model", c.model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return []Generation{{Text: sb.String()}}, nil
}
