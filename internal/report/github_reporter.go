package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

// GitHubReporter implements Reporter for GitHub Actions workflow commands, so
// test cases generated in CI show up as annotations on the run.
type GitHubReporter struct {
	out io.Writer
}

// NewGitHubReporter creates a new GitHub Actions reporter
func NewGitHubReporter(out io.Writer) *GitHubReporter {
	return &GitHubReporter{out: out}
}

// ReportTestCases outputs one notice per test case, titled by its category.
func (r *GitHubReporter) ReportTestCases(result *testcases.Result) {
	if result.Warning() != nil {
		r.outputAnnotation("warning", "No test cases parsed", "Raw model output:\n"+result.Raw)
		return
	}

	r.outputAnnotation("notice", "", fmt.Sprintf("📊 Generated %d test cases (%s)", len(result.Rows), result.Mode))

	for _, row := range result.Rows {
		switch row := row.(type) {
		case parser.TestCaseRow:
			r.outputAnnotation("notice", string(row.Category)+" test case", row.Text)
		case parser.BulletRow:
			r.outputAnnotation("notice", fmt.Sprintf("Test case %d", row.Index), row.Title)
		}
	}
}

func (r *GitHubReporter) ReportAnswer(answer *qa.Answer) {
	r.outputAnnotation("notice", "Answer ("+string(answer.Source)+")", answer.Text)
}

func (r *GitHubReporter) outputAnnotation(level, title, message string) {
	if title == "" {
		fmt.Fprintf(r.out, "::%s ::%s\n", level, escapeData(message))
		return
	}
	fmt.Fprintf(r.out, "::%s title=%s::%s\n", level, escapeProperty(title), escapeData(message))
}

// escapeData escapes special characters for GitHub Actions annotations
func escapeData(message string) string {
	message = strings.ReplaceAll(message, "%", "%25")
	message = strings.ReplaceAll(message, "\r", "%0D")
	message = strings.ReplaceAll(message, "\n", "%0A")
	return message
}

// escapeProperty additionally escapes the separators used in key=value lists.
func escapeProperty(value string) string {
	value = escapeData(value)
	value = strings.ReplaceAll(value, ":", "%3A")
	value = strings.ReplaceAll(value, ",", "%2C")
	return value
}
