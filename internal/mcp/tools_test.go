package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/prompt"
	"github.com/rejot-dev/qakit/internal/providers"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

type mockGenerator struct {
	text string
	err  error
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts providers.Options) ([]providers.Generation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []providers.Generation{{Text: m.text}}, nil
}

func (m *mockGenerator) Name() string    { return "mock" }
func (m *mockGenerator) Validate() error { return nil }

func newTestHandler(t *testing.T, gen providers.Generator) *ToolsResourcesHandler {
	t.Helper()
	cfg, err := config.ParseAndValidate([]byte("version: \"1.0\"\nprovider: openai\nmodel: gpt-4o\napi_key: sk-1234567890abcdef\n"))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	return NewToolsResourcesHandler(cfg, testcases.NewService(gen, cfg), qa.NewService(gen, cfg))
}

func TestListTools(t *testing.T) {
	handler := newTestHandler(t, &mockGenerator{})
	tools := handler.ListTools()

	expected := map[string][]string{
		"generate_test_cases": {"story"},
		"answer_question":     {"context", "question"},
		"solve_math":          {"context", "question"},
		"clean_lines":         {"text"},
	}

	if len(tools) != len(expected) {
		t.Fatalf("expected %d tools, got %d", len(expected), len(tools))
	}

	for _, tool := range tools {
		required, ok := expected[tool.Name]
		if !ok {
			t.Errorf("unexpected tool: %s", tool.Name)
			continue
		}
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}

		data, err := json.Marshal(tool.InputSchema)
		if err != nil {
			t.Fatalf("failed to marshal schema for %s: %v", tool.Name, err)
		}
		var schema struct {
			Type                 string         `json:"type"`
			Properties           map[string]any `json:"properties"`
			Required             []string       `json:"required"`
			AdditionalProperties *bool          `json:"additionalProperties"`
		}
		if err := json.Unmarshal(data, &schema); err != nil {
			t.Fatalf("failed to decode schema for %s: %v", tool.Name, err)
		}
		if schema.Type != "object" {
			t.Errorf("tool %s: expected object schema, got %q", tool.Name, schema.Type)
		}
		if strings.Join(schema.Required, ",") != strings.Join(required, ",") {
			t.Errorf("tool %s: expected required %v, got %v", tool.Name, required, schema.Required)
		}
		if schema.AdditionalProperties == nil || *schema.AdditionalProperties {
			t.Errorf("tool %s: expected additionalProperties false", tool.Name)
		}
	}
}

func TestCallTool(t *testing.T) {
	tests := []struct {
		name      string
		gen       *mockGenerator
		tool      string
		args      string
		wantError bool
		contains  []string
	}{
		{
			name:     "generate categorized",
			gen:      &mockGenerator{text: "Positive:\n1. Valid login\nEdge:\n1. Empty password"},
			tool:     "generate_test_cases",
			args:     `{"story":"As a user I want to log in"}`,
			contains: []string{`"Positive"`, `"Valid login"`, `"Edge"`},
		},
		{
			name:     "generate bulleted with nothing parsed",
			gen:      &mockGenerator{text: "sorry"},
			tool:     "generate_test_cases",
			args:     `{"story":"s","mode":"bulleted"}`,
			contains: []string{testcases.ErrParseEmpty.Error(), `"raw": "sorry"`},
		},
		{
			name:      "generate without story",
			gen:       &mockGenerator{},
			tool:      "generate_test_cases",
			args:      `{"story":""}`,
			wantError: true,
			contains:  []string{testcases.ErrInputMissing.Error()},
		},
		{
			name:      "generate with bad mode",
			gen:       &mockGenerator{},
			tool:      "generate_test_cases",
			args:      `{"story":"s","mode":"grid"}`,
			wantError: true,
		},
		{
			name:      "model failure",
			gen:       &mockGenerator{err: errors.New("quota exceeded")},
			tool:      "answer_question",
			args:      `{"context":"The sky is blue.","question":"What colour?"}`,
			wantError: true,
			contains:  []string{"quota exceeded"},
		},
		{
			name:     "answer by math",
			gen:      &mockGenerator{},
			tool:     "answer_question",
			args:     `{"context":"4 mangoes for $2 each. I paid $10.","question":"How much change?"}`,
			contains: []string{`"source": "math"`, `"answer": "$2"`},
		},
		{
			name:     "solve math deferral",
			gen:      &mockGenerator{},
			tool:     "solve_math",
			args:     `{"context":"No prices here.","question":"How much?"}`,
			contains: []string{`"solved": false`},
		},
		{
			name:     "clean lines",
			gen:      &mockGenerator{},
			tool:     "clean_lines",
			args:     `{"text":"  a line \n\nA line!\nother"}`,
			contains: []string{"a line\nother"},
		},
		{
			name:      "unknown argument",
			gen:       &mockGenerator{},
			tool:      "clean_lines",
			args:      `{"txt":"a"}`,
			wantError: true,
		},
		{
			name:      "unknown tool",
			gen:       &mockGenerator{},
			tool:      "analyze_code",
			args:      `{}`,
			wantError: true,
			contains:  []string{"Unknown tool: analyze_code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, tt.gen)
			resp, err := handler.CallTool(context.Background(), &ToolCallRequest{
				Name:      tt.tool,
				Arguments: json.RawMessage(tt.args),
			})
			if err != nil {
				t.Fatalf("unexpected protocol error: %v", err)
			}
			if resp.IsError != tt.wantError {
				t.Errorf("expected IsError %v, got %v (%+v)", tt.wantError, resp.IsError, resp.Content)
			}
			if len(resp.Content) != 1 {
				t.Fatalf("expected one content block, got %d", len(resp.Content))
			}
			for _, want := range tt.contains {
				if !strings.Contains(resp.Content[0].Text, want) {
					t.Errorf("expected %q in %q", want, resp.Content[0].Text)
				}
			}
		})
	}
}

func TestListResources(t *testing.T) {
	handler := newTestHandler(t, &mockGenerator{})
	resources := handler.ListResources()

	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	if resources[0].URI != "config://qakit.yaml" || resources[1].URI != "prompt://few-shot" {
		t.Errorf("unexpected resources: %+v", resources)
	}
}

func TestReadResource(t *testing.T) {
	handler := newTestHandler(t, &mockGenerator{})

	resp, err := handler.ReadResource(context.Background(), &ResourceReadRequest{URI: "config://qakit.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resp.Contents[0].Text
	if strings.Contains(text, "sk-1234567890abcdef") {
		t.Error("config resource leaks the API key")
	}
	if !strings.Contains(text, "model: gpt-4o") {
		t.Errorf("unexpected config resource:\n%s", text)
	}

	resp, err = handler.ReadResource(context.Background(), &ResourceReadRequest{URI: "prompt://few-shot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Contents[0].Text != prompt.FewShotExample {
		t.Error("few-shot resource does not match the prompt example")
	}

	_, err = handler.ReadResource(context.Background(), &ResourceReadRequest{URI: "file://README.md"})
	if !errors.Is(err, ErrUnknownResource) {
		t.Errorf("expected ErrUnknownResource, got %v", err)
	}
}
