// Package qa answers questions about a context paragraph. Simple arithmetic
// problems are solved locally; everything else is handed to the model.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/mathsolver"
	"github.com/rejot-dev/qakit/internal/prompt"
	"github.com/rejot-dev/qakit/internal/providers"
)

// ErrInputMissing is returned when the context or the question is blank.
var ErrInputMissing = errors.New("please provide both context and question")

type Source string

const (
	SourceMath  Source = "math"
	SourceModel Source = "model"
)

type Answer struct {
	Source Source `json:"source"`
	Text   string `json:"answer"`
}

type Service struct {
	generator providers.Generator
	options   providers.Options
	mathMode  bool
}

// NewService creates the QA service. The generator is only used for
// questions the math solver defers on, so a lazily built providers.Shared
// handle is never constructed for purely arithmetic workloads.
func NewService(generator providers.Generator, cfg *config.Config) *Service {
	return &Service{
		generator: generator,
		options:   providers.OptionsFrom(cfg.QA.Generation),
		mathMode:  cfg.MathModeEnabled(),
	}
}

func (s *Service) Answer(ctx context.Context, contextText, question string) (*Answer, error) {
	if strings.TrimSpace(contextText) == "" || strings.TrimSpace(question) == "" {
		return nil, ErrInputMissing
	}

	if s.mathMode {
		if symbol, answer, ok := mathsolver.TrySolve(contextText, question); ok {
			log.Debug("Answered by math solver", "answer", answer)
			return &Answer{Source: SourceMath, Text: mathsolver.Format(symbol, answer)}, nil
		}
	}

	generations, err := s.generator.Generate(ctx, prompt.BuildQAPrompt(contextText, question), s.options)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}
	text, err := providers.FirstText(generations)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return &Answer{Source: SourceModel, Text: text}, nil
}
