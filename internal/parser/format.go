package parser

import "fmt"

// Mode selects how generated test cases are laid out and parsed.
type Mode string

const (
	ModeCategorized Mode = "categorized"
	ModeBulleted    Mode = "bulleted"
)

// ToMode converts a user supplied string into a Mode.
func ToMode(mode string) (Mode, error) {
	switch mode {
	case "", string(ModeCategorized):
		return ModeCategorized, nil
	case string(ModeBulleted):
		return ModeBulleted, nil
	default:
		return "", fmt.Errorf("invalid mode: %s", mode)
	}
}

func GetAllModes() []Mode {
	return []Mode{ModeCategorized, ModeBulleted}
}

// Row is a single table row ready for display or CSV export.
type Row interface {
	Record() []string
}

// Format turns raw model output into table rows for one Mode.
type Format interface {
	Mode() Mode
	Header() []string
	Parse(text string) []Row
}

type categorizedFormat struct{}

func (categorizedFormat) Mode() Mode { return ModeCategorized }

func (categorizedFormat) Header() []string { return []string{"Category", "Test Case"} }

func (categorizedFormat) Parse(text string) []Row {
	parsed := ParseCategorized(text)
	rows := make([]Row, len(parsed))
	for i, row := range parsed {
		rows[i] = row
	}
	return rows
}

type bulletedFormat struct{}

func (bulletedFormat) Mode() Mode { return ModeBulleted }

func (bulletedFormat) Header() []string { return []string{"Index", "Title"} }

// Parse dedups the output before picking up the dash items.
func (bulletedFormat) Parse(text string) []Row {
	parsed := ParseBulleted(CleanAndDedup(text))
	rows := make([]Row, len(parsed))
	for i, row := range parsed {
		rows[i] = row
	}
	return rows
}

// FormatFor returns the Format for mode, falling back to categorized output.
func FormatFor(mode Mode) Format {
	if mode == ModeBulleted {
		return bulletedFormat{}
	}
	return categorizedFormat{}
}
