package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/rejot-dev/qakit/internal/parser"
)

type Config struct {
	Version       string    `yaml:"version"`
	Provider      string    `yaml:"provider"`
	Model         string    `yaml:"model"`
	APIKey        string    `yaml:"api_key"`
	BaseURL       string    `yaml:"base_url,omitempty"`
	Timeout       int       `yaml:"timeout"`
	StripMarkdown bool      `yaml:"strip_markdown"`
	TestCases     TestCases `yaml:"testcases"`
	QA            QA        `yaml:"qa"`
	Server        Server    `yaml:"server"`
	MCP           *MCP      `yaml:"mcp,omitempty"`
}

type TestCases struct {
	Mode        string     `yaml:"mode"`
	Categorized Generation `yaml:"categorized"`
	Bulleted    Generation `yaml:"bulleted"`
}

type QA struct {
	MathMode   *bool      `yaml:"math_mode,omitempty"`
	Generation Generation `yaml:"generation"`
}

// Generation holds the sampling knobs passed to the model for one kind of
// request. Unset fields are filled in by validate.
type Generation struct {
	MaxLength         int      `yaml:"max_length"`
	Sampling          *bool    `yaml:"sampling,omitempty"`
	TopP              *float64 `yaml:"top_p,omitempty"`
	Temperature       *float64 `yaml:"temperature,omitempty"`
	RepetitionPenalty *float64 `yaml:"repetition_penalty,omitempty"`
	NumSequences      int      `yaml:"num_sequences,omitempty"`
}

type Server struct {
	Address string `yaml:"address"`
}

type MCP struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	config, err := ParseAndValidate(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// ParseAndValidate parses data, rejects invalid settings and fills in the
// defaults. Environment variables are not expanded.
func ParseAndValidate(data []byte) (*Config, error) {
	config, err := ParseFromBytes(data)
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func ParseFromBytes(data []byte) (*Config, error) {

	var config Config
	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s", c.Version)
	}

	// If correct provider is passed is checked on client instantiation
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	// API key is optional for Ollama (local provider)
	if c.Provider != "ollama" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %s", c.Provider)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be positive number, got: %d", c.Timeout)
	}

	if _, err := parser.ToMode(c.TestCases.Mode); err != nil {
		return fmt.Errorf("testcases.mode must be 'categorized' or 'bulleted', got: %s", c.TestCases.Mode)
	}

	// Set defaults
	if c.TestCases.Mode == "" {
		c.TestCases.Mode = string(parser.ModeCategorized)
	}
	applyDefaults(&c.TestCases.Categorized, CategorizedDefaults())
	applyDefaults(&c.TestCases.Bulleted, BulletedDefaults())
	applyDefaults(&c.QA.Generation, QADefaults())

	if c.QA.MathMode == nil {
		defaultMathMode := true
		c.QA.MathMode = &defaultMathMode
	}

	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}

	if c.MCP != nil && c.MCP.Enabled {
		if c.MCP.Address == "" {
			c.MCP.Address = "localhost"
		}
		if c.MCP.Port == 0 {
			c.MCP.Port = 7777
		}
	}

	for name, gen := range map[string]Generation{
		"testcases.categorized": c.TestCases.Categorized,
		"testcases.bulleted":    c.TestCases.Bulleted,
		"qa.generation":         c.QA.Generation,
	} {
		if err := gen.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func (g Generation) validate() error {
	if g.MaxLength < 0 {
		return fmt.Errorf("max_length must be positive, got: %d", g.MaxLength)
	}
	if g.NumSequences < 0 {
		return fmt.Errorf("num_sequences must be positive, got: %d", g.NumSequences)
	}
	// Temperature 0.0 is allowed for deterministic output
	if *g.Temperature < 0 || *g.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got: %f", *g.Temperature)
	}
	if *g.TopP <= 0 || *g.TopP > 1 {
		return fmt.Errorf("top_p must be in (0.0, 1.0], got: %f", *g.TopP)
	}
	if g.RepetitionPenalty != nil && *g.RepetitionPenalty <= 0 {
		return fmt.Errorf("repetition_penalty must be positive, got: %f", *g.RepetitionPenalty)
	}
	return nil
}

// CategorizedDefaults mirrors the settings the grouped test case prompt was
// tuned with.
func CategorizedDefaults() Generation {
	return Generation{
		MaxLength:   512,
		Sampling:    boolPtr(true),
		TopP:        floatPtr(0.95),
		Temperature: floatPtr(0.2),
	}
}

func BulletedDefaults() Generation {
	return Generation{
		MaxLength:         512,
		Sampling:          boolPtr(true),
		TopP:              floatPtr(0.95),
		Temperature:       floatPtr(0.7),
		RepetitionPenalty: floatPtr(1.2),
		NumSequences:      1,
	}
}

// QADefaults asks for short greedy answers.
func QADefaults() Generation {
	return Generation{
		MaxLength:   100,
		Sampling:    boolPtr(false),
		TopP:        floatPtr(1),
		Temperature: floatPtr(0),
	}
}

func applyDefaults(g *Generation, defaults Generation) {
	if g.MaxLength == 0 {
		g.MaxLength = defaults.MaxLength
	}
	if g.Sampling == nil {
		g.Sampling = defaults.Sampling
	}
	if g.TopP == nil {
		g.TopP = defaults.TopP
	}
	if g.Temperature == nil {
		g.Temperature = defaults.Temperature
	}
	if g.RepetitionPenalty == nil {
		g.RepetitionPenalty = defaults.RepetitionPenalty
	}
	if g.NumSequences == 0 {
		g.NumSequences = defaults.NumSequences
	}
}

// GenerationFor returns the generation settings for a test case mode.
func (c *Config) GenerationFor(mode parser.Mode) Generation {
	if mode == parser.ModeBulleted {
		return c.TestCases.Bulleted
	}
	return c.TestCases.Categorized
}

func (c *Config) Mode() parser.Mode {
	mode, _ := parser.ToMode(c.TestCases.Mode)
	return mode
}

func (c *Config) MathModeEnabled() bool {
	return c.QA.MathMode == nil || *c.QA.MathMode
}

// MaskAPIKey masks the API key for secure display
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 11 {
		return "[MASKED]"
	}
	return apiKey[:7] + "[MASKED]" + apiKey[len(apiKey)-4:]
}

// MarshalMasked renders the config as YAML with the API key masked.
func (c *Config) MarshalMasked() ([]byte, error) {
	configCopy := *c
	configCopy.APIKey = MaskAPIKey(c.APIKey)

	yamlData, err := yaml.Marshal(&configCopy)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return yamlData, nil
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
