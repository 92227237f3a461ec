package report

import (
	"fmt"
	"io"
	"os"

	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

// Reporter defines the interface for presenting generated test cases and answers
type Reporter interface {
	ReportTestCases(result *testcases.Result)
	ReportAnswer(answer *qa.Answer)
}

type Format string

const (
	FormatStdout Format = "stdout"
	FormatGitHub Format = "github"
)

func ToFormat(format string) (Format, error) {
	switch format {
	case "", string(FormatStdout):
		return FormatStdout, nil
	case string(FormatGitHub):
		return FormatGitHub, nil
	default:
		return "", fmt.Errorf("invalid output format: %s", format)
	}
}

// New returns the reporter for format writing to w. A nil w means stdout.
func New(format Format, w io.Writer, showRaw bool) Reporter {
	if w == nil {
		w = os.Stdout
	}
	if format == FormatGitHub {
		return NewGitHubReporter(w)
	}
	return NewStdoutReporter(w, &StdoutReporterOptions{ShowRaw: showRaw})
}
