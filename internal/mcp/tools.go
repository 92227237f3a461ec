package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/mathsolver"
	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/prompt"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

const (
	configURI  = "config://qakit.yaml"
	fewShotURI = "prompt://few-shot"
)

// ErrUnknownResource is returned by ReadResource for URIs it does not serve.
var ErrUnknownResource = errors.New("unknown resource URI")

// Tool represents an MCP tool that can be called by external clients
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// Resource represents an MCP resource that can be accessed by external clients
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ToolCallRequest represents a tool call request from an external client
type ToolCallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolCallResponse represents a tool call response
type ToolCallResponse struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content represents content returned by a tool
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	URI      string `json:"uri,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ResourceReadRequest represents a resource read request
type ResourceReadRequest struct {
	URI string `json:"uri"`
}

// ResourceReadResponse represents a resource read response
type ResourceReadResponse struct {
	Contents []Content `json:"contents"`
}

type GenerateTestCasesArgs struct {
	Story string `json:"story" jsonschema_description:"User story to generate test cases for"`
	Mode  string `json:"mode,omitempty" jsonschema:"enum=categorized,enum=bulleted" jsonschema_description:"Output layout, categorized by default"`
}

type AnswerQuestionArgs struct {
	Context  string `json:"context" jsonschema_description:"Paragraph the answer must come from"`
	Question string `json:"question" jsonschema_description:"Question about the context"`
}

type SolveMathArgs struct {
	Context  string `json:"context" jsonschema_description:"Word problem with priced items and the amount paid"`
	Question string `json:"question" jsonschema_description:"Total or change question"`
}

type CleanLinesArgs struct {
	Text string `json:"text" jsonschema_description:"Multi-line text to trim and deduplicate"`
}

type generateTestCasesResult struct {
	Mode    parser.Mode `json:"mode"`
	Header  []string    `json:"header"`
	Rows    [][]string  `json:"rows"`
	Raw     string      `json:"raw"`
	Warning string      `json:"warning,omitempty"`
}

type solveMathResult struct {
	Solved bool   `json:"solved"`
	Symbol string `json:"symbol,omitempty"`
	Answer string `json:"answer,omitempty"`
}

// ToolsResourcesHandler handles MCP tools and resources
type ToolsResourcesHandler struct {
	config    *config.Config
	testCases *testcases.Service
	qa        *qa.Service
}

// NewToolsResourcesHandler creates a new tools/resources handler
func NewToolsResourcesHandler(cfg *config.Config, testCases *testcases.Service, qaService *qa.Service) *ToolsResourcesHandler {
	return &ToolsResourcesHandler{
		config:    cfg,
		testCases: testCases,
		qa:        qaService,
	}
}

// ListTools returns the list of available tools
func (h *ToolsResourcesHandler) ListTools() []Tool {
	return []Tool{
		{
			Name:        "generate_test_cases",
			Description: "Generate test cases for a user story and return them as a table",
			InputSchema: generateSchema[GenerateTestCasesArgs](),
		},
		{
			Name:        "answer_question",
			Description: "Answer a question using only the given context, solving simple shopping arithmetic locally",
			InputSchema: generateSchema[AnswerQuestionArgs](),
		},
		{
			Name:        "solve_math",
			Description: "Compute the total or change of a simple shopping word problem without a model",
			InputSchema: generateSchema[SolveMathArgs](),
		},
		{
			Name:        "clean_lines",
			Description: "Trim lines, drop empty ones and remove near-duplicate lines",
			InputSchema: generateSchema[CleanLinesArgs](),
		},
	}
}

// ListResources returns the list of available resources
func (h *ToolsResourcesHandler) ListResources() []Resource {
	return []Resource{
		{
			URI:         configURI,
			Name:        "qakit Configuration",
			Description: "Current qakit configuration with the API key masked",
			MimeType:    "application/yaml",
		},
		{
			URI:         fewShotURI,
			Name:        "Few-shot example",
			Description: "Example user story and test cases included in every test case prompt",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool call. Bad arguments and failed generations are
// reported as tool errors, not protocol errors.
func (h *ToolsResourcesHandler) CallTool(ctx context.Context, req *ToolCallRequest) (*ToolCallResponse, error) {
	switch req.Name {
	case "generate_test_cases":
		return h.generateTestCases(ctx, req.Arguments)
	case "answer_question":
		return h.answerQuestion(ctx, req.Arguments)
	case "solve_math":
		return h.solveMath(req.Arguments)
	case "clean_lines":
		return h.cleanLines(req.Arguments)
	default:
		return errorResult(fmt.Sprintf("Unknown tool: %s", req.Name)), nil
	}
}

// ReadResource reads a resource
func (h *ToolsResourcesHandler) ReadResource(ctx context.Context, req *ResourceReadRequest) (*ResourceReadResponse, error) {
	switch req.URI {
	case configURI:
		return h.readConfig()
	case fewShotURI:
		return &ResourceReadResponse{
			Contents: []Content{{Type: "text", Text: prompt.FewShotExample, URI: fewShotURI, MimeType: "text/plain"}},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, req.URI)
	}
}

func (h *ToolsResourcesHandler) generateTestCases(ctx context.Context, raw json.RawMessage) (*ToolCallResponse, error) {
	var args GenerateTestCasesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return errorResult(err.Error()), nil
	}

	mode, err := parser.ToMode(args.Mode)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	result, err := h.testCases.Generate(ctx, args.Story, mode)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	out := generateTestCasesResult{
		Mode:   result.Mode,
		Header: result.Header,
		Rows:   result.Records(),
		Raw:    result.Raw,
	}
	if warning := result.Warning(); warning != nil {
		out.Warning = warning.Error()
	}
	return jsonResult(out)
}

func (h *ToolsResourcesHandler) answerQuestion(ctx context.Context, raw json.RawMessage) (*ToolCallResponse, error) {
	var args AnswerQuestionArgs
	if err := decodeArgs(raw, &args); err != nil {
		return errorResult(err.Error()), nil
	}

	answer, err := h.qa.Answer(ctx, args.Context, args.Question)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(answer)
}

func (h *ToolsResourcesHandler) solveMath(raw json.RawMessage) (*ToolCallResponse, error) {
	var args SolveMathArgs
	if err := decodeArgs(raw, &args); err != nil {
		return errorResult(err.Error()), nil
	}

	symbol, answer, ok := mathsolver.TrySolve(args.Context, args.Question)
	return jsonResult(solveMathResult{Solved: ok, Symbol: symbol, Answer: answer})
}

func (h *ToolsResourcesHandler) cleanLines(raw json.RawMessage) (*ToolCallResponse, error) {
	var args CleanLinesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(parser.CleanAndDedup(args.Text)), nil
}

func (h *ToolsResourcesHandler) readConfig() (*ResourceReadResponse, error) {
	configData, err := h.config.MarshalMasked()
	if err != nil {
		return nil, fmt.Errorf("error formatting config: %w", err)
	}

	return &ResourceReadResponse{
		Contents: []Content{{
			Type:     "text",
			Text:     string(configData),
			URI:      configURI,
			MimeType: "application/yaml",
		}},
	}, nil
}

// generateSchema reflects the input schema for a tool argument struct. Fields
// without omitempty are required.
func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
