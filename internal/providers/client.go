package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rejot-dev/qakit/internal/config"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOllama    Provider = "ollama"
	ProviderCerebras  Provider = "cerebras"
)

// ErrNoGeneration is returned when a provider answers without any text.
var ErrNoGeneration = errors.New("model returned no generations")

func ToProvider(provider string) (Provider, error) {
	switch provider {
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic":
		return ProviderAnthropic, nil
	case "gemini":
		return ProviderGemini, nil
	case "ollama":
		return ProviderOllama, nil
	case "cerebras":
		return ProviderCerebras, nil
	default:
		return "", fmt.Errorf("invalid provider: %s", provider)
	}
}

func GetAllProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama, ProviderCerebras}
}

type ProviderDefaults struct {
	Model     string
	ApiKeyVar string
}

func GetProviderDefaults(provider Provider) ProviderDefaults {
	switch provider {
	case ProviderOpenAI:
		return ProviderDefaults{
			Model:     "gpt-4o",
			ApiKeyVar: "OPENAI_API_KEY",
		}
	case ProviderAnthropic:
		return ProviderDefaults{
			Model:     "claude-sonnet-4-0",
			ApiKeyVar: "ANTHROPIC_API_KEY",
		}
	case ProviderGemini:
		return ProviderDefaults{
			Model:     "gemini-2.5-flash",
			ApiKeyVar: "GOOGLE_API_KEY",
		}
	case ProviderOllama:
		return ProviderDefaults{
			Model:     "llama3.2",
			ApiKeyVar: "", // Ollama doesn't require an API key
		}
	case ProviderCerebras:
		return ProviderDefaults{
			Model:     "llama-4-scout-17b-16e-instruct",
			ApiKeyVar: "CEREBRAS_API_KEY",
		}
	default:
		return ProviderDefaults{
			Model:     "<unknown>",
			ApiKeyVar: "<unknown>",
		}
	}
}

// Options are the sampling settings for a single generate call.
type Options struct {
	MaxLength         int
	Sampling          bool
	TopP              float64
	Temperature       float64
	RepetitionPenalty *float64
	NumSequences      int
}

// OptionsFrom converts validated config settings into call options.
func OptionsFrom(g config.Generation) Options {
	opts := Options{
		MaxLength:         g.MaxLength,
		RepetitionPenalty: g.RepetitionPenalty,
		NumSequences:      g.NumSequences,
	}
	if g.Sampling != nil {
		opts.Sampling = *g.Sampling
	}
	if g.TopP != nil {
		opts.TopP = *g.TopP
	}
	if g.Temperature != nil {
		opts.Temperature = *g.Temperature
	}
	return opts
}

// temperature is zero when sampling is off, which chat APIs treat as greedy.
func (o Options) temperature() float64 {
	if !o.Sampling {
		return 0
	}
	return o.Temperature
}

func (o Options) topP() (float64, bool) {
	if !o.Sampling || o.TopP <= 0 || o.TopP >= 1 {
		return 0, false
	}
	return o.TopP, true
}

func (o Options) count() int {
	if o.NumSequences < 1 {
		return 1
	}
	return o.NumSequences
}

// frequencyPenalty maps a multiplicative repetition penalty (1.0 = off) onto
// the additive -2..2 frequency penalty of OpenAI style APIs.
func (o Options) frequencyPenalty() (float64, bool) {
	if o.RepetitionPenalty == nil || *o.RepetitionPenalty == 1 {
		return 0, false
	}
	penalty := *o.RepetitionPenalty - 1
	return max(-2, min(2, penalty)), true
}

// Generation is one returned sequence.
type Generation struct {
	Text string
}

// Generator defines the interface for text generation providers
type Generator interface {
	// Generate runs the prompt through the model and returns every sequence
	Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error)

	// Name returns the name of the provider
	Name() string

	// Validate checks if the client configuration is valid
	Validate() error
}

// FirstText returns the first generated text, trimmed. Any further sequences
// are ignored.
func FirstText(generations []Generation) (string, error) {
	if len(generations) == 0 {
		return "", ErrNoGeneration
	}
	return strings.TrimSpace(generations[0].Text), nil
}

// Config holds common configuration for AI providers
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

func CreateGenerator(cfg *config.Config) (Generator, error) {
	provider, providerErr := ToProvider(cfg.Provider)
	if providerErr != nil {
		return nil, fmt.Errorf("invalid provider: %s", cfg.Provider)
	}

	providerConfig := &Config{
		Provider: provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  time.Duration(cfg.Timeout) * time.Second,
	}

	var client Generator
	var err error

	switch provider {
	case ProviderOpenAI:
		client, err = NewOpenAIClient(providerConfig)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(providerConfig)
	case ProviderGemini:
		client, err = NewGeminiClient(providerConfig)
	case ProviderOllama:
		client, err = NewOllamaClient(providerConfig)
	case ProviderCerebras:
		client, err = NewCerebrasClient(providerConfig)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// withTimeout applies the configured deadline, if any. Zero means the call
// runs until the provider answers or ctx is cancelled.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
