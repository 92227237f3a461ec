package parser

import (
	"regexp"
	"strings"
)

// Category is the test case group a row belongs to.
type Category string

const (
	Positive      Category = "Positive"
	Negative      Category = "Negative"
	Edge          Category = "Edge"
	Uncategorized Category = "Uncategorized"
)

var (
	// A section opens on any line made of letters and spaces followed by a colon,
	// e.g. "Positive:" or "Test Cases:".
	sectionHeaderRegex = regexp.MustCompile(`^[A-Za-z ]+:`)
	categoryRegex      = regexp.MustCompile(`(?i)^(positive|negative|edge)`)
	// What is left of a header line after the category token: ":", " cases:", " Test Cases:".
	headerRestRegex = regexp.MustCompile(`(?i)^(?:[ ]+(?:test[ ]+)?cases?)?[ ]*:`)
	listItemRegex   = regexp.MustCompile(`\n\d+\.\s+`)
	itemMarkerRegex = regexp.MustCompile(`^\d+[).\-]?\s*`)
)

// TestCaseRow is one parsed test case.
type TestCaseRow struct {
	Category Category `json:"category"`
	Text     string   `json:"test_case"`
}

func (r TestCaseRow) Record() []string {
	return []string{string(r.Category), r.Text}
}

// ParseCategorized splits model output grouped under Positive/Negative/Edge
// headers into rows. Sections without a recognised header inherit the
// category of the previous one.
func ParseCategorized(text string) []TestCaseRow {
	rows := make([]TestCaseRow, 0)
	current := Uncategorized

	for _, section := range splitSections(text) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		body := section
		if loc := categoryRegex.FindStringIndex(section); loc != nil {
			current = toCategory(section[loc[0]:loc[1]])
			body = section[loc[1]:]
			if rest := headerRestRegex.FindStringIndex(body); rest != nil {
				body = body[rest[1]:]
			}
			body = strings.TrimSpace(body)
		}

		for _, item := range listItemRegex.Split("\n"+body, -1) {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			item = itemMarkerRegex.ReplaceAllString(item, "")
			if item == "" {
				continue
			}
			rows = append(rows, TestCaseRow{Category: current, Text: item})
		}
	}

	return rows
}

// splitSections cuts text at every newline whose following line looks like a
// section header. The newline is dropped, the header line starts the next
// section.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")
	sections := make([]string, 0, 4)

	var current []string
	for i, line := range lines {
		if i > 0 && sectionHeaderRegex.MatchString(line) {
			sections = append(sections, strings.Join(current, "\n"))
			current = current[:0:0]
		}
		current = append(current, line)
	}
	sections = append(sections, strings.Join(current, "\n"))

	return sections
}

func toCategory(token string) Category {
	switch strings.ToLower(token) {
	case "positive":
		return Positive
	case "negative":
		return Negative
	case "edge":
		return Edge
	default:
		return Uncategorized
	}
}
