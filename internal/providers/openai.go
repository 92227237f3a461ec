package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements the Generator interface for OpenAI API
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for OpenAI provider")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAIClient{
		client:  &client,
		model:   config.Model,
		timeout: config.Timeout,
	}, nil
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return string(ProviderOpenAI)
}

// Validate checks if the client configuration is valid
func (c *OpenAIClient) Validate() error {
	if c.client == nil {
		return fmt.Errorf("client is not initialized")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// Generate sends a chat completion request to OpenAI API
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("client validation failed: %w", err)
	}

	chatReq := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(opts.temperature()),
	}
	if opts.MaxLength > 0 {
		chatReq.MaxCompletionTokens = openai.Int(int64(opts.MaxLength))
	}
	if topP, ok := opts.topP(); ok {
		chatReq.TopP = openai.Float(topP)
	}
	if penalty, ok := opts.frequencyPenalty(); ok {
		chatReq.FrequencyPenalty = openai.Float(penalty)
	}
	if n := opts.count(); n > 1 {
		chatReq.N = openai.Int(int64(n))
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoGeneration
	}

	log.Debug("OpenAI generation finished",
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	generations := make([]Generation, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		generations = append(generations, Generation{Text: choice.Message.Content})
	}
	return generations, nil
}
