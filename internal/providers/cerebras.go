package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const cerebrasDefaultBaseURL = "https://api.cerebras.ai/v1"

// CerebrasClient implements the Generator interface for Cerebras API
type CerebrasClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
}

// NewCerebrasClient creates a new Cerebras client
func NewCerebrasClient(config *Config) (*CerebrasClient, error) {
	baseURL := cerebrasDefaultBaseURL
	if config.BaseURL != "" {
		baseURL = config.BaseURL
	}

	return &CerebrasClient{
		httpClient: &http.Client{},
		apiKey:     config.APIKey,
		model:      config.Model,
		baseURL:    baseURL,
		timeout:    config.Timeout,
	}, nil
}

// Name returns the provider name
func (c *CerebrasClient) Name() string {
	return string(ProviderCerebras)
}

// Validate checks if the client configuration is valid
func (c *CerebrasClient) Validate() error {
	if c.httpClient == nil {
		return fmt.Errorf("HTTP client is not initialized")
	}
	if c.apiKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// CerebrasMessage represents a message in the chat completion request
type CerebrasMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CerebrasRequest represents the request payload for Cerebras API
type CerebrasRequest struct {
	Model            string            `json:"model"`
	Messages         []CerebrasMessage `json:"messages"`
	Temperature      *float64          `json:"temperature,omitempty"`
	TopP             *float64          `json:"top_p,omitempty"`
	FrequencyPenalty *float64          `json:"frequency_penalty,omitempty"`
	MaxTokens        *int              `json:"max_completion_tokens,omitempty"`
	N                *int              `json:"n,omitempty"`
}

// CerebrasChoice represents a choice in the API response
type CerebrasChoice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// CerebrasUsage represents token usage in the API response
type CerebrasUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CerebrasResponse represents the response from Cerebras API
type CerebrasResponse struct {
	ID      string           `json:"id"`
	Choices []CerebrasChoice `json:"choices"`
	Usage   CerebrasUsage    `json:"usage"`
	Created int64            `json:"created"`
	Model   string           `json:"model"`
}

func (c *CerebrasClient) buildRequest(prompt string, opts Options) CerebrasRequest {
	temperature := opts.temperature()
	payload := CerebrasRequest{
		Model: c.model,
		Messages: []CerebrasMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: &temperature,
	}
	if opts.MaxLength > 0 {
		maxTokens := opts.MaxLength
		payload.MaxTokens = &maxTokens
	}
	if topP, ok := opts.topP(); ok {
		payload.TopP = &topP
	}
	if penalty, ok := opts.frequencyPenalty(); ok {
		payload.FrequencyPenalty = &penalty
	}
	if n := opts.count(); n > 1 {
		payload.N = &n
	}
	return payload
}

// Generate sends a chat completion request to Cerebras API
func (c *CerebrasClient) Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("client validation failed: %w", err)
	}

	jsonData, err := json.Marshal(c.buildRequest(prompt, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cerebras API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cerebras API returned status %d: %s", resp.StatusCode, string(body))
	}

	var cerebrasResp CerebrasResponse
	if err := json.Unmarshal(body, &cerebrasResp); err != nil {
		return nil, fmt.Errorf("failed to parse Cerebras response: %w", err)
	}

	if len(cerebrasResp.Choices) == 0 {
		return nil, ErrNoGeneration
	}

	log.Debug("Cerebras generation finished",
		"model", c.model,
		"prompt_tokens", cerebrasResp.Usage.PromptTokens,
		"completion_tokens", cerebrasResp.Usage.CompletionTokens)

	generations := make([]Generation, 0, len(cerebrasResp.Choices))
	for _, choice := range cerebrasResp.Choices {
		generations = append(generations, Generation{Text: choice.Message.Content})
	}
	return generations, nil
}
