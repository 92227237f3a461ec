package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// A dash or bullet, optional spacing, then the rest of the line. An
	// asterisk needs spacing after it so "**bold**" lines are not bullets.
	bulletRegex = regexp.MustCompile(`(?m)^[ \t]*(?:[-•–—]|\*(?:[ \t]|$))[ \t]*(.*)$`)
	// Rule lines such as "---" or "* * *".
	ruleRegex = regexp.MustCompile(`^[ \t]*(?:[-*_•–—][ \t]*){3,}$`)
)

// BulletRow is one dash-prefixed item, numbered from 1.
type BulletRow struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

func (r BulletRow) Record() []string {
	return []string{strconv.Itoa(r.Index), r.Title}
}

// ParseBulleted returns every dash or bullet item in text. Lines that do not
// start with a dash are ignored.
func ParseBulleted(text string) []BulletRow {
	rows := make([]BulletRow, 0)
	for _, m := range bulletRegex.FindAllStringSubmatch(text, -1) {
		if ruleRegex.MatchString(m[0]) {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		rows = append(rows, BulletRow{Index: len(rows) + 1, Title: title})
	}
	return rows
}
