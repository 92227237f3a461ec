package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// GeminiClient implements the Generator interface for Google Gemini API
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for Gemini provider")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   config.Model,
		timeout: config.Timeout,
	}, nil
}

// Name returns the provider name
func (c *GeminiClient) Name() string {
	return string(ProviderGemini)
}

// Validate checks if the client configuration is valid
func (c *GeminiClient) Validate() error {
	if c.client == nil {
		return fmt.Errorf("client is not initialized")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// Generate sends a generate content request to Gemini
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("client validation failed: %w", err)
	}

	temperature := float32(opts.temperature())
	genConfig := &genai.GenerateContentConfig{
		Temperature:    &temperature,
		CandidateCount: int32(opts.count()),
	}
	if opts.MaxLength > 0 {
		genConfig.MaxOutputTokens = int32(opts.MaxLength)
	}
	if topP, ok := opts.topP(); ok {
		p := float32(topP)
		genConfig.TopP = &p
	}
	if penalty, ok := opts.frequencyPenalty(); ok {
		p := float32(penalty)
		genConfig.FrequencyPenalty = &p
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	generations := make([]Generation, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		generations = append(generations, Generation{Text: sb.String()})
	}

	if result.UsageMetadata != nil {
		log.Debug("Gemini generation finished",
			"model", c.model,
			"prompt_tokens", result.UsageMetadata.PromptTokenCount,
			"candidates_tokens", result.UsageMetadata.CandidatesTokenCount)
	}

	if len(generations) == 0 {
		return nil, ErrNoGeneration
	}
	return generations, nil
}
