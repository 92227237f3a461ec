package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rejot-dev/qakit/internal/parser"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	validConfig := `version: "1.0"
provider: openai
model: gpt-4o
api_key: test-key
timeout: 30
strip_markdown: true
testcases:
  mode: bulleted
  bulleted:
    max_length: 256
    temperature: 0.9
qa:
  math_mode: false
server:
  address: "127.0.0.1:9000"
mcp:
  enabled: true
  port: 9100
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Test loading valid config
	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify config values
	if config.Version != "1.0" {
		t.Errorf("expected version '1.0', got %s", config.Version)
	}
	if config.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %s", config.Provider)
	}
	if config.Model != "gpt-4o" {
		t.Errorf("expected model 'gpt-4o', got %s", config.Model)
	}
	if config.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %s", config.APIKey)
	}
	if config.Timeout != 30 {
		t.Errorf("expected timeout 30, got %d", config.Timeout)
	}
	if !config.StripMarkdown {
		t.Error("expected strip_markdown to be true")
	}
	if config.Mode() != parser.ModeBulleted {
		t.Errorf("expected mode 'bulleted', got %s", config.Mode())
	}

	bulleted := config.GenerationFor(parser.ModeBulleted)
	if bulleted.MaxLength != 256 {
		t.Errorf("expected bulleted max_length 256, got %d", bulleted.MaxLength)
	}
	if *bulleted.Temperature != 0.9 {
		t.Errorf("expected bulleted temperature 0.9, got %f", *bulleted.Temperature)
	}
	if bulleted.RepetitionPenalty == nil || *bulleted.RepetitionPenalty != 1.2 {
		t.Error("expected bulleted repetition_penalty default 1.2")
	}

	if config.MathModeEnabled() {
		t.Error("expected math_mode to be disabled")
	}
	if config.Server.Address != "127.0.0.1:9000" {
		t.Errorf("expected server address '127.0.0.1:9000', got %s", config.Server.Address)
	}
	if config.MCP == nil || config.MCP.Address != "localhost" || config.MCP.Port != 9100 {
		t.Errorf("unexpected mcp config: %+v", config.MCP)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("QAKIT_TEST_KEY", "sk-from-env")

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "env.yaml")
	content := "version: \"1.0\"\nprovider: anthropic\nmodel: claude-sonnet-4-0\napi_key: ${QAKIT_TEST_KEY}\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if config.APIKey != "sk-from-env" {
		t.Errorf("expected api key from env, got %s", config.APIKey)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("non-existent-file.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.yaml")

	invalidYAML := `invalid: yaml: content: [unclosed`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	if err != nil {
		t.Fatalf("failed to write invalid config: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestParseFromBytes_UnknownField(t *testing.T) {
	_, err := ParseFromBytes([]byte("version: \"1.0\"\nrules: []\n"))
	if err == nil {
		t.Error("expected strict parsing to reject unknown field")
	}
}

func TestConfig_validate(t *testing.T) {
	negative := -0.5
	tooHighTopP := 1.5

	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name: "valid config",
			config: Config{
				Version:  "1.0",
				Provider: "openai",
				Model:    "gpt-4o",
				APIKey:   "test-key",
			},
			wantError: false,
		},
		{
			name: "missing version",
			config: Config{
				Provider: "openai",
				Model:    "gpt-4o",
				APIKey:   "test-key",
			},
			wantError: true,
		},
		{
			name: "unsupported version",
			config: Config{
				Version:  "2.0",
				Provider: "openai",
				Model:    "gpt-4o",
				APIKey:   "test-key",
			},
			wantError: true,
		},
		{
			name: "missing provider",
			config: Config{
				Version: "1.0",
				Model:   "gpt-4o",
				APIKey:  "test-key",
			},
			wantError: true,
		},
		{
			name: "missing model",
			config: Config{
				Version:  "1.0",
				Provider: "openai",
				APIKey:   "test-key",
			},
			wantError: true,
		},
		{
			name: "missing api key for non-local provider",
			config: Config{
				Version:  "1.0",
				Provider: "openai",
				Model:    "gpt-4o",
			},
			wantError: true,
		},
		{
			name: "ollama without api key",
			config: Config{
				Version:  "1.0",
				Provider: "ollama",
				Model:    "llama3.2",
			},
			wantError: false,
		},
		{
			name: "negative timeout",
			config: Config{
				Version:  "1.0",
				Provider: "ollama",
				Model:    "llama3.2",
				Timeout:  -1,
			},
			wantError: true,
		},
		{
			name: "unknown mode",
			config: Config{
				Version:   "1.0",
				Provider:  "ollama",
				Model:     "llama3.2",
				TestCases: TestCases{Mode: "tabular"},
			},
			wantError: true,
		},
		{
			name: "negative temperature",
			config: Config{
				Version:   "1.0",
				Provider:  "ollama",
				Model:     "llama3.2",
				TestCases: TestCases{Categorized: Generation{Temperature: &negative}},
			},
			wantError: true,
		},
		{
			name: "top_p above one",
			config: Config{
				Version:  "1.0",
				Provider: "ollama",
				Model:    "llama3.2",
				QA:       QA{Generation: Generation{TopP: &tooHighTopP}},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_validate_Defaults(t *testing.T) {
	config := Config{
		Version:  "1.0",
		Provider: "openai",
		Model:    "gpt-4o",
		APIKey:   "test-key",
	}

	err := config.validate()
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}

	// Check that defaults were set
	if config.Timeout != 0 {
		t.Errorf("expected no default timeout, got %d", config.Timeout)
	}
	if config.TestCases.Mode != "categorized" {
		t.Errorf("expected default mode categorized, got %s", config.TestCases.Mode)
	}
	categorized := config.TestCases.Categorized
	if categorized.MaxLength != 512 || !*categorized.Sampling || *categorized.TopP != 0.95 || *categorized.Temperature != 0.2 {
		t.Errorf("unexpected categorized defaults: %+v", categorized)
	}
	qa := config.QA.Generation
	if qa.MaxLength != 100 || *qa.Sampling {
		t.Errorf("unexpected qa defaults: %+v", qa)
	}
	if !config.MathModeEnabled() {
		t.Error("expected math mode enabled by default")
	}
	if config.Server.Address != ":8080" {
		t.Errorf("expected default server address :8080, got %s", config.Server.Address)
	}
	if config.MCP != nil {
		t.Error("expected mcp to stay unset")
	}
}

func TestMarshalMasked(t *testing.T) {
	config := Config{
		Version:  "1.0",
		Provider: "openai",
		Model:    "gpt-4o",
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := config.MarshalMasked()
	if err != nil {
		t.Fatalf("MarshalMasked failed: %v", err)
	}

	if strings.Contains(string(out), "sk-1234567890abcdef") {
		t.Error("api key leaked into rendered config")
	}
	if !strings.Contains(string(out), "sk-1234[MASKED]cdef") {
		t.Errorf("expected masked api key, got:\n%s", out)
	}
	if config.APIKey != "sk-1234567890abcdef" {
		t.Error("masking must not modify the original config")
	}
}
