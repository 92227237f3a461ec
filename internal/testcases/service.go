// Package testcases turns a user story into a table of test cases using a
// text generation model.
package testcases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/prompt"
	"github.com/rejot-dev/qakit/internal/providers"
)

var (
	// ErrInputMissing is returned for a blank user story. No model call is made.
	ErrInputMissing = errors.New("please enter a user story")
	// ErrParseEmpty means the model answered but nothing could be parsed from it.
	ErrParseEmpty = errors.New("could not parse any test cases from the model output")
)

// Result is the outcome of one generation. Raw always holds the trimmed model
// text, even when no rows were parsed from it.
type Result struct {
	Mode   parser.Mode
	Header []string
	Raw    string
	Rows   []parser.Row
}

// Warning returns ErrParseEmpty when the result has no rows.
func (r *Result) Warning() error {
	if len(r.Rows) == 0 {
		return ErrParseEmpty
	}
	return nil
}

// Records returns the rows as string slices, in order.
func (r *Result) Records() [][]string {
	records := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		records[i] = row.Record()
	}
	return records
}

type Service struct {
	generator     providers.Generator
	options       map[parser.Mode]providers.Options
	stripMarkdown bool
}

func NewService(generator providers.Generator, cfg *config.Config) *Service {
	options := make(map[parser.Mode]providers.Options, 2)
	for _, mode := range parser.GetAllModes() {
		options[mode] = providers.OptionsFrom(cfg.GenerationFor(mode))
	}

	return &Service{
		generator:     generator,
		options:       options,
		stripMarkdown: cfg.StripMarkdown,
	}
}

// Generate asks the model for test cases covering story and parses the answer
// according to mode.
func (s *Service) Generate(ctx context.Context, story string, mode parser.Mode) (*Result, error) {
	story = strings.TrimSpace(story)
	if story == "" {
		return nil, ErrInputMissing
	}

	mode = parser.FormatFor(mode).Mode()
	userPrompt := prompt.BuildForMode(mode, story)

	log.Debug("Generating test cases", "mode", mode, "prompt_length", len(userPrompt))

	generations, err := s.generator.Generate(ctx, userPrompt, s.options[mode])
	if err != nil {
		return nil, fmt.Errorf("test case generation failed: %w", err)
	}
	raw, err := providers.FirstText(generations)
	if err != nil {
		return nil, fmt.Errorf("test case generation failed: %w", err)
	}

	return s.Parse(raw, mode), nil
}

// Parse turns model output into rows for mode. Markdown is stripped first
// when the service is configured to, so re-parsing the same raw text always
// yields the same table.
func (s *Service) Parse(raw string, mode parser.Mode) *Result {
	format := parser.FormatFor(mode)
	raw = strings.TrimSpace(raw)

	text := raw
	if s.stripMarkdown {
		text = parser.StripMarkdown(raw)
	}

	rows := format.Parse(text)
	log.Debug("Parsed test cases", "mode", format.Mode(), "rows", len(rows))

	return &Result{
		Mode:   format.Mode(),
		Header: format.Header(),
		Raw:    raw,
		Rows:   rows,
	}
}
