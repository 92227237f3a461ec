package parser

import (
	"regexp"
	"strings"
)

var nonKeyRegex = regexp.MustCompile(`[^a-z0-9]+`)

// CleanAndDedup trims every line, drops blank ones and keeps only the first
// line for each case and punctuation insensitive key.
func CleanAndDedup(text string) string {
	seen := make(map[string]bool)
	lines := make([]string, 0)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := dedupKey(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func dedupKey(line string) string {
	return nonKeyRegex.ReplaceAllString(strings.ToLower(line), "")
}
