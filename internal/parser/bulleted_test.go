package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBulleted(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []BulletRow
	}{
		{
			name:  "non dashed line is dropped",
			input: "- Foo\n- Bar\nBaz",
			expected: []BulletRow{
				{Index: 1, Title: "Foo"},
				{Index: 2, Title: "Bar"},
			},
		},
		{
			name:  "mixed bullet characters and spacing",
			input: "• One\n  -   Two  \n-\n* Three",
			expected: []BulletRow{
				{Index: 1, Title: "One"},
				{Index: 2, Title: "Two"},
				{Index: 3, Title: "Three"},
			},
		},
		{
			name:  "markdown emphasis and rules are not bullets",
			input: "**Positive**\n---\n- Valid login\n* * *\n*Italic note*\n___\n- Remember me",
			expected: []BulletRow{
				{Index: 1, Title: "Valid login"},
				{Index: 2, Title: "Remember me"},
			},
		},
		{
			name:  "dashes inside a title are kept",
			input: "- Login -- with SSO\n-- Double dash item",
			expected: []BulletRow{
				{Index: 1, Title: "Login -- with SSO"},
				{Index: 2, Title: "- Double dash item"},
			},
		},
		{
			name:     "no bullets",
			input:    "Verify login\nVerify logout",
			expected: []BulletRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseBulleted(tt.input))
		})
	}
}

func TestBulletedFormat_DedupsBeforeParsing(t *testing.T) {
	format := FormatFor(ModeBulleted)

	rows := format.Parse("- Foo\n- foo!\n\n- Bar")

	assert.Equal(t, []Row{
		BulletRow{Index: 1, Title: "Foo"},
		BulletRow{Index: 2, Title: "Bar"},
	}, rows)
	assert.Equal(t, []string{"Index", "Title"}, format.Header())
	assert.Equal(t, []string{"2", "Bar"}, rows[1].Record())
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, ModeCategorized, FormatFor(ModeCategorized).Mode())
	assert.Equal(t, ModeBulleted, FormatFor(ModeBulleted).Mode())
	assert.Equal(t, ModeCategorized, FormatFor("unknown").Mode())
	assert.Equal(t, []string{"Category", "Test Case"}, FormatFor(ModeCategorized).Header())
}

func TestToMode(t *testing.T) {
	mode, err := ToMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeCategorized, mode)

	mode, err = ToMode("bulleted")
	assert.NoError(t, err)
	assert.Equal(t, ModeBulleted, mode)

	_, err = ToMode("tabular")
	assert.Error(t, err)
}
