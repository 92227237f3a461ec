package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategorized(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TestCaseRow
	}{
		{
			name:  "grouped headers",
			input: "Positive:\n1. A\n2. B\nNegative:\n1. C",
			expected: []TestCaseRow{
				{Category: Positive, Text: "A"},
				{Category: Positive, Text: "B"},
				{Category: Negative, Text: "C"},
			},
		},
		{
			name:  "no headers",
			input: "1. Verify login\n2. Verify logout",
			expected: []TestCaseRow{
				{Category: Uncategorized, Text: "Verify login"},
				{Category: Uncategorized, Text: "Verify logout"},
			},
		},
		{
			name:  "header with empty body",
			input: "Positive:\nNegative:\n1. Wrong password shows an error",
			expected: []TestCaseRow{
				{Category: Negative, Text: "Wrong password shows an error"},
			},
		},
		{
			name:  "long header form and lowercase token",
			input: "Positive Test Cases:\n1. A\nedge cases:\n1. B",
			expected: []TestCaseRow{
				{Category: Positive, Text: "A"},
				{Category: Edge, Text: "B"},
			},
		},
		{
			name:  "parenthesis marker on first item",
			input: "Negative:\n1) Wrong password",
			expected: []TestCaseRow{
				{Category: Negative, Text: "Wrong password"},
			},
		},
		{
			name:  "unrecognised section inherits category",
			input: "Edge:\n1. Empty fields\nNote: rate limiting applies",
			expected: []TestCaseRow{
				{Category: Edge, Text: "Empty fields"},
				{Category: Edge, Text: "Note: rate limiting applies"},
			},
		},
		{
			name:  "preamble line stays uncategorized",
			input: "Test Cases:\nPositive:\n1. A",
			expected: []TestCaseRow{
				{Category: Uncategorized, Text: "Test Cases:"},
				{Category: Positive, Text: "A"},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []TestCaseRow{},
		},
		{
			name:     "only whitespace",
			input:    "  \n\n\t",
			expected: []TestCaseRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCategorized(tt.input))
		})
	}
}

func TestParseCategorized_RowRecord(t *testing.T) {
	row := TestCaseRow{Category: Edge, Text: "Verify rate limiting"}
	assert.Equal(t, []string{"Edge", "Verify rate limiting"}, row.Record())
}
