package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/providers"
)

type mockGenerator struct {
	text    string
	err     error
	prompts []string
	options []providers.Options
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts providers.Options) ([]providers.Generation, error) {
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	if m.err != nil {
		return nil, m.err
	}
	return []providers.Generation{{Text: m.text}}, nil
}

func (m *mockGenerator) Name() string    { return "mock" }
func (m *mockGenerator) Validate() error { return nil }

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.ParseAndValidate([]byte("version: \"1.0\"\nprovider: ollama\nmodel: llama3.2\n" + extra))
	require.NoError(t, err)
	return cfg
}

const shopping = "Riya bought 3 pencils for ₹10 each and 2 erasers for ₹5 each. She paid with a ₹60 note."

func TestAnswer_MathSolver(t *testing.T) {
	gen := &mockGenerator{}
	svc := NewService(gen, testConfig(t, ""))

	answer, err := svc.Answer(context.Background(), shopping, "How much change did she get back?")
	require.NoError(t, err)

	assert.Equal(t, SourceMath, answer.Source)
	assert.Equal(t, "₹20", answer.Text)
	assert.Empty(t, gen.prompts, "solved questions must not reach the model")
}

func TestAnswer_FallsBackToModel(t *testing.T) {
	gen := &mockGenerator{text: "  Paris  "}
	svc := NewService(gen, testConfig(t, ""))

	answer, err := svc.Answer(context.Background(), "The capital of France is Paris.", "What is the capital of France?")
	require.NoError(t, err)

	assert.Equal(t, SourceModel, answer.Source)
	assert.Equal(t, "Paris", answer.Text)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Answer the question based only on the context below")
	assert.Contains(t, gen.prompts[0], "What is the capital of France?")
	assert.Equal(t, 100, gen.options[0].MaxLength)
	assert.False(t, gen.options[0].Sampling)
}

func TestAnswer_MathModeDisabled(t *testing.T) {
	gen := &mockGenerator{text: "20 rupees"}
	svc := NewService(gen, testConfig(t, "qa:\n  math_mode: false\n"))

	answer, err := svc.Answer(context.Background(), shopping, "How much change did she get back?")
	require.NoError(t, err)
	assert.Equal(t, SourceModel, answer.Source)
	assert.Equal(t, "20 rupees", answer.Text)
}

func TestAnswer_InputMissing(t *testing.T) {
	gen := &mockGenerator{}
	svc := NewService(gen, testConfig(t, ""))

	tests := []struct {
		name     string
		context  string
		question string
	}{
		{name: "empty context", question: "How much?"},
		{name: "empty question", context: shopping},
		{name: "whitespace only", context: "  ", question: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), tt.context, tt.question)
			assert.ErrorIs(t, err, ErrInputMissing)
		})
	}
	assert.Empty(t, gen.prompts)
}

func TestAnswer_GenerationFailure(t *testing.T) {
	apiErr := errors.New("model unavailable")
	svc := NewService(&mockGenerator{err: apiErr}, testConfig(t, ""))

	_, err := svc.Answer(context.Background(), "Some context.", "Who?")
	assert.ErrorIs(t, err, apiErr)
}

func TestAnswer_LazySharedGenerator(t *testing.T) {
	builds := 0
	shared := providers.NewShared(func() (providers.Generator, error) {
		builds++
		return nil, errors.New("no credentials")
	})
	svc := NewService(shared, testConfig(t, ""))

	answer, err := svc.Answer(context.Background(), shopping, "What is the total cost?")
	require.NoError(t, err)
	assert.Equal(t, "₹40", answer.Text)
	assert.Equal(t, 0, builds, "math answers must not construct the generator")

	_, err = svc.Answer(context.Background(), "The sky is blue.", "What colour is the sky?")
	assert.Error(t, err)
	assert.Equal(t, 1, builds)
}
