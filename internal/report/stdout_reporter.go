package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rejot-dev/qakit/internal/color"
	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

var (
	boldCyan = lipgloss.NewStyle().
			Bold(true).
			Foreground(color.Cyan)

	muted = lipgloss.NewStyle().
		Foreground(color.DarkGray)

	foreground = lipgloss.NewStyle().
			Foreground(color.LightGray)

	boldYellow = lipgloss.NewStyle().
			Bold(true).
			Foreground(color.Orange)

	bold = lipgloss.NewStyle().
		Bold(true)
)

// categoryStyles holds the heading and item styles per category.
var categoryStyles = map[parser.Category][2]lipgloss.Style{
	parser.Positive: {
		lipgloss.NewStyle().Bold(true).Foreground(color.DarkGreen),
		lipgloss.NewStyle().Foreground(color.Green),
	},
	parser.Negative: {
		lipgloss.NewStyle().Bold(true).Foreground(color.DarkRed),
		lipgloss.NewStyle().Foreground(color.Red),
	},
	parser.Edge: {
		lipgloss.NewStyle().Bold(true).Foreground(color.Orange),
		lipgloss.NewStyle().Foreground(color.Yellow),
	},
	parser.Uncategorized: {
		lipgloss.NewStyle().Bold(true).Foreground(color.DarkBlue),
		lipgloss.NewStyle().Foreground(color.Blue),
	},
}

// categoryOrder is the order of the summary line.
var categoryOrder = []parser.Category{parser.Positive, parser.Negative, parser.Edge, parser.Uncategorized}

// StdoutReporter implements Reporter for terminal output
type StdoutReporter struct {
	out     io.Writer
	options *StdoutReporterOptions
}

type StdoutReporterOptions struct {
	ShowRaw   bool
	TextWidth int
}

// NewStdoutReporter creates a new stdout reporter
func NewStdoutReporter(out io.Writer, options *StdoutReporterOptions) *StdoutReporter {
	if options.TextWidth == 0 {
		options.TextWidth = 80
	}

	return &StdoutReporter{
		out:     out,
		options: options,
	}
}

// ReportTestCases prints the parsed table, grouped by category in
// categorized mode and as a numbered list in bulleted mode.
func (r *StdoutReporter) ReportTestCases(result *testcases.Result) {
	fmt.Fprint(r.out, "\n")
	fmt.Fprintln(r.out, boldCyan.Render("🧪 GENERATED TEST CASES"))

	if result.Warning() != nil {
		fmt.Fprintln(r.out, boldYellow.Render("⚠️  Could not parse any test cases. Raw output:"))
		r.printRaw(result.Raw)
		return
	}

	if result.Mode == parser.ModeBulleted {
		r.reportBulleted(result.Rows)
	} else {
		r.reportCategorized(result.Rows)
	}

	if r.options.ShowRaw {
		fmt.Fprint(r.out, "\n")
		fmt.Fprintln(r.out, bold.Render("Raw output:"))
		r.printRaw(result.Raw)
	}
}

// reportCategorized prints rows in parse order, opening a new heading each
// time the category changes. The summary totals rows per category.
func (r *StdoutReporter) reportCategorized(rows []parser.Row) {
	var runs []categoryRun
	counts := make(map[parser.Category]int)
	for _, row := range rows {
		tc, ok := row.(parser.TestCaseRow)
		if !ok {
			continue
		}
		if len(runs) == 0 || runs[len(runs)-1].category != tc.Category {
			runs = append(runs, categoryRun{category: tc.Category})
		}
		last := &runs[len(runs)-1]
		last.items = append(last.items, tc.Text)
		counts[tc.Category]++
	}

	for _, run := range runs {
		styles := categoryStyles[run.category]
		fmt.Fprint(r.out, "\n")
		fmt.Fprintln(r.out, styles[0].Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(run.category)), len(run.items))))
		for i, item := range run.items {
			r.displayItem(item, i+1, styles[1])
		}
	}

	summary := make([]string, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		if counts[category] == 0 {
			continue
		}
		summary = append(summary, categoryStyles[category][1].Render(fmt.Sprintf("%d", counts[category]))+" "+strings.ToLower(string(category)))
	}

	fmt.Fprint(r.out, "\n")
	fmt.Fprintln(r.out, bold.Render("📊 SUMMARY: ")+strings.Join(summary, ", "))
}

type categoryRun struct {
	category parser.Category
	items    []string
}

func (r *StdoutReporter) reportBulleted(rows []parser.Row) {
	fmt.Fprint(r.out, "\n")
	for _, row := range rows {
		b, ok := row.(parser.BulletRow)
		if !ok {
			continue
		}
		r.displayItem(b.Title, b.Index, categoryStyles[parser.Uncategorized][1])
	}

	fmt.Fprint(r.out, "\n")
	fmt.Fprintln(r.out, bold.Render("📊 SUMMARY: ")+fmt.Sprintf("%d test case titles", len(rows)))
}

func (r *StdoutReporter) displayItem(text string, number int, itemColor lipgloss.Style) {
	numberText := itemColor.Render(fmt.Sprintf("%d. ", number))
	lines := wrapText(text, r.options.TextWidth)
	fmt.Fprintf(r.out, "   %s%s\n", numberText, foreground.Render(lines[0]))
	for _, line := range lines[1:] {
		fmt.Fprintf(r.out, "      %s\n", foreground.Render(line))
	}
}

func (r *StdoutReporter) printRaw(raw string) {
	if strings.TrimSpace(raw) == "" {
		fmt.Fprintln(r.out, muted.Render("(empty)"))
		return
	}
	for _, line := range strings.Split(raw, "\n") {
		fmt.Fprintf(r.out, "   %s\n", muted.Render(line))
	}
}

// ReportAnswer prints the answer and where it came from.
func (r *StdoutReporter) ReportAnswer(answer *qa.Answer) {
	source := "model"
	if answer.Source == qa.SourceMath {
		source = "math solver"
	}

	fmt.Fprint(r.out, "\n")
	fmt.Fprintln(r.out, boldCyan.Render("💬 ANSWER")+" "+muted.Render("("+source+")"))
	for _, line := range wrapText(answer.Text, r.options.TextWidth) {
		fmt.Fprintf(r.out, "   %s\n", bold.Render(line))
	}
}

// wrapText wraps long text to specified width
func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	currentLine := words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) > width {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine += " " + word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
