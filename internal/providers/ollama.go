package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	ollama "github.com/prathyushnallamothu/ollamago"
)

const ollamaDefaultBaseURL = "http://localhost:11434"

type OllamaClient struct {
	client  *ollama.Client
	model   string
	timeout time.Duration
}

// NewOllamaClient creates a new Ollama client
func NewOllamaClient(config *Config) (*OllamaClient, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}

	client := ollama.NewClient(
		ollama.WithBaseURL(baseURL),
	)

	return &OllamaClient{
		client:  client,
		model:   config.Model,
		timeout: config.Timeout,
	}, nil
}

// Name returns the provider name
func (c *OllamaClient) Name() string {
	return string(ProviderOllama)
}

// Validate checks if the client configuration is valid
func (c *OllamaClient) Validate() error {
	if c.client == nil {
		return fmt.Errorf("client is not initialized")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// Generate sends a non-streaming generate request to Ollama.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("client validation failed: %w", err)
	}

	generateReq := ollama.GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Options: ollamaOptions(opts),
		Stream:  false,
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Generate(ctx, generateReq)
	if err != nil {
		return nil, fmt.Errorf("ollama API request failed: %w", err)
	}

	log.Debug("Ollama generation finished",
		"model", c.model,
		"prompt_tokens", resp.PromptEvalCount,
		"completion_tokens", resp.EvalCount)

	return []Generation{{Text: resp.Response}}, nil
}

// ollamaOptions maps call options onto Ollama's model parameters. Ollama's
// repeat_penalty is multiplicative like RepetitionPenalty, so it passes
// through unchanged.
func ollamaOptions(opts Options) *ollama.Options {
	temperature := opts.temperature()
	options := &ollama.Options{
		Temperature: &temperature,
	}
	if opts.MaxLength > 0 {
		numPredict := opts.MaxLength
		options.NumPredict = &numPredict
	}
	if topP, ok := opts.topP(); ok {
		options.TopP = &topP
	}
	if opts.RepetitionPenalty != nil {
		penalty := *opts.RepetitionPenalty
		options.RepeatPenalty = &penalty
	}
	return options
}
