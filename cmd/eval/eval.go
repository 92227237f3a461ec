package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/providers"
	"github.com/rejot-dev/qakit/internal/qa"
)

var casesHeader = []string{"name", "context", "question", "expected"}

type EvalCase struct {
	Name     string
	Context  string
	Question string
	Expected string
}

type EvalResult struct {
	Case   EvalCase
	Answer *qa.Answer
	Err    error
	Passed bool
}

// RunEvaluation answers every selected case and reports pass or fail per
// case to out. Full runs append a summary row to the results file.
func RunEvaluation(ctx context.Context, opts evalOptions, out io.Writer) error {
	fmt.Fprintln(out, "Running qakit evaluations...")

	cases, err := loadCases(opts.casesFile)
	if err != nil {
		return fmt.Errorf("failed to load cases: %w", err)
	}
	cases, err = filterCases(cases, opts.cases)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Built on the first case the math solver defers on, if any.
	generator := providers.NewShared(func() (providers.Generator, error) {
		return providers.CreateGenerator(cfg)
	})
	service := qa.NewService(generator, cfg)

	results := runCases(ctx, service, cases)
	passed := displayResults(out, results)

	if len(opts.cases) == 0 {
		if err := recordResults(opts.resultsFile, cfg, passed, len(results)); err != nil {
			log.Warn("Failed to record results", "path", opts.resultsFile, "err", err)
		}
	}

	if passed == len(results) {
		fmt.Fprintln(out, "✅ All evaluations passed!")
		return nil
	}
	return fmt.Errorf("evaluation failed: %d/%d cases passed", passed, len(results))
}

func loadCases(filePath string) ([]EvalCase, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readCases(file)
}

func readCases(r io.Reader) ([]EvalCase, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(casesHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no cases found")
	}
	if !slices.Equal(records[0], casesHeader) {
		return nil, fmt.Errorf("unexpected header %v, want %v", records[0], casesHeader)
	}

	cases := make([]EvalCase, 0, len(records)-1)
	for _, record := range records[1:] {
		cases = append(cases, EvalCase{
			Name:     record[0],
			Context:  record[1],
			Question: record[2],
			Expected: record[3],
		})
	}
	return cases, nil
}

func filterCases(cases []EvalCase, names []string) ([]EvalCase, error) {
	if len(names) == 0 {
		return cases, nil
	}

	filtered := make([]EvalCase, 0, len(names))
	for _, name := range names {
		idx := slices.IndexFunc(cases, func(c EvalCase) bool { return c.Name == name })
		if idx < 0 {
			return nil, fmt.Errorf("unknown case: %s", name)
		}
		filtered = append(filtered, cases[idx])
	}
	return filtered, nil
}

func runCases(ctx context.Context, service *qa.Service, cases []EvalCase) []EvalResult {
	results := make([]EvalResult, 0, len(cases))
	for _, c := range cases {
		answer, err := service.Answer(ctx, c.Context, c.Question)
		result := EvalResult{Case: c, Answer: answer, Err: err}
		if err == nil {
			result.Passed = matches(answer.Text, c.Expected)
		}
		results = append(results, result)
	}
	return results
}

// matches accepts the answer when it contains the expected text, ignoring
// case and surrounding punctuation, so "The answer is ₹20." matches "₹20".
func matches(answer, expected string) bool {
	normalize := func(s string) string {
		return strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".!")
	}
	return strings.Contains(normalize(answer), normalize(expected))
}

func displayResults(out io.Writer, results []EvalResult) int {
	fmt.Fprintln(out, "\n--- Evaluation Results ---")

	passed := 0
	for _, r := range results {
		status := "❌ FAIL"
		if r.Passed {
			status = "✅ PASS"
			passed++
		}

		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "%s %s: error: %v\n", status, r.Case.Name, r.Err)
		default:
			fmt.Fprintf(out, "%s %s: expected %q, got %q (%s)\n",
				status, r.Case.Name, r.Case.Expected, r.Answer.Text, r.Answer.Source)
		}
	}

	fmt.Fprintf(out, "\nSummary: %d/%d cases passed\n", passed, len(results))
	return passed
}

// recordResults appends one summary row per full run to the results file.
func recordResults(path string, cfg *config.Config, passed, total int) error {
	_, statErr := os.Stat(path)
	writeHeader := errors.Is(statErr, os.ErrNotExist)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write([]string{"timestamp", "provider", "model", "passed", "total"}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		time.Now().UTC().Format(time.RFC3339),
		cfg.Provider,
		cfg.Model,
		strconv.Itoa(passed),
		strconv.Itoa(total),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
