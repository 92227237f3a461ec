package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeArgs strictly decodes tool arguments into the tool's argument struct.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func textResult(text string) *ToolCallResponse {
	return &ToolCallResponse{
		Content: []Content{{Type: "text", Text: text}},
	}
}

func errorResult(message string) *ToolCallResponse {
	return &ToolCallResponse{
		Content: []Content{{Type: "text", Text: message}},
		IsError: true,
	}
}

func jsonResult(v any) (*ToolCallResponse, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Error formatting result: %v", err)), nil
	}
	return textResult(string(data)), nil
}
