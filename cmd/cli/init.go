package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rejot-dev/qakit/internal/color"
	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/providers"
)

var configTemplate = `# qakit configuration file
# This file configures test case generation and ContextQA.

version: "1.0"

# AI Provider configuration
provider: "{{ .Provider }}"
model: "{{ .Model }}"
{{- if ne .APIKeyVar "" }}
api_key: "${{ "{" }}{{ .APIKeyVar }}{{ "}" }}"
{{- end }}
{{- if eq .Provider "ollama" }}
base_url: "http://localhost:11434"
{{- end }}
timeout: 0                   # seconds per model call, 0 waits indefinitely
strip_markdown: false        # flatten markdown in model output before parsing

# Test case generation
testcases:
  mode: "{{ .Mode }}"        # categorized or bulleted
  categorized:
    max_length: 512
    sampling: true
    top_p: 0.95
    temperature: 0.2
  bulleted:
    max_length: 512
    sampling: true
    top_p: 0.95
    temperature: 0.7
    repetition_penalty: 1.2

# ContextQA
qa:
  math_mode: true            # solve simple shopping/change problems without the model
  generation:
    max_length: 100
    sampling: false

# Web front-end (qakit serve)
server:
  address: ":8080"
`

type ConfigData struct {
	Provider  string
	Model     string
	APIKeyVar string
	Mode      string
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively create a qakit.yaml configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
		},
	}
}

func runInit(reader *bufio.Reader, out io.Writer) error {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color.White).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color.Blue).
		Padding(0, 2).
		MarginBottom(1)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(color.White).
		MarginBottom(1)

	fmt.Fprintln(out, titleStyle.Render("📋 qakit Configuration Setup"))
	fmt.Fprintln(out, subtitleStyle.Render("Will setup your qakit.yaml configuration file."))

	// 1. Ask for config filename
	configFile := promptForInput(reader, out, "Config filename", defaultConfigPath)

	if _, err := os.Stat(configFile); err == nil {
		warningStyle := lipgloss.NewStyle().
			Foreground(color.Orange).
			Bold(true)

		fmt.Fprintf(out, "%s File '%s' already exists. Overwrite? (y/N): ",
			warningStyle.Render("⚠️"), configFile)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			return fmt.Errorf("not overwriting existing config file: %s", configFile)
		}
	}

	// 2. Ask for AI provider
	providerStrings := []string{}
	for _, provider := range providers.GetAllProviders() {
		providerStrings = append(providerStrings, string(provider))
	}

	providerInput := promptForInput(reader, out, "AI Provider ["+strings.Join(providerStrings, ", ")+"]", string(providers.ProviderOpenAI))
	provider, err := providers.ToProvider(providerInput)
	if err != nil {
		return err
	}

	// 3. Ask for model with provider-specific defaults
	providerDefaults := providers.GetProviderDefaults(provider)
	model := promptForInput(reader, out, "Model", providerDefaults.Model)

	// 4. Ask for the test case output mode
	modeStrings := []string{}
	for _, mode := range parser.GetAllModes() {
		modeStrings = append(modeStrings, string(mode))
	}
	modeInput := promptForInput(reader, out, "Test case mode ["+strings.Join(modeStrings, ", ")+"]", string(parser.ModeCategorized))
	mode, err := parser.ToMode(modeInput)
	if err != nil {
		return err
	}

	configContent, err := generateConfig(provider, model, providerDefaults.ApiKeyVar, mode)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	successStyle := lipgloss.NewStyle().
		Foreground(color.Green).
		Bold(true).
		MarginTop(1)

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Configuration file '%s' created successfully!", configFile)))

	nextStepsStyle := lipgloss.NewStyle().
		Foreground(color.Blue).
		Bold(true).
		MarginTop(1)

	stepStyle := lipgloss.NewStyle().
		Foreground(color.White).
		MarginLeft(3)

	codeStyle := lipgloss.NewStyle().
		Foreground(color.Yellow).
		Background(color.Black).
		Padding(0, 1)

	noteStyle := lipgloss.NewStyle().
		Foreground(color.Orange).
		Bold(true)

	steps := []string{}
	if providerDefaults.ApiKeyVar != "" {
		fmt.Fprintln(out, noteStyle.Render(fmt.Sprintf("📝 Don't forget to set your %s environment variable.", providerDefaults.ApiKeyVar)))
		steps = append(steps, "Set your API key: "+codeStyle.Render("export "+providerDefaults.ApiKeyVar+"='your-api-key-here'"))
	}
	if provider == providers.ProviderOllama {
		steps = append(steps,
			"Make sure Ollama is running: "+codeStyle.Render("ollama serve"),
			"Pull a model: "+codeStyle.Render("ollama pull "+model))
	}
	steps = append(steps,
		"Generate test cases: "+codeStyle.Render(`qakit testcases "As a user, I want to ..."`),
		"Or start the web front-end: "+codeStyle.Render("qakit serve"))

	fmt.Fprintln(out, nextStepsStyle.Render("🎯 Next steps:"))
	for i, step := range steps {
		fmt.Fprintln(out, stepStyle.Render(fmt.Sprintf("%d. %s", i+1, step)))
	}

	return nil
}

func promptForInput(reader *bufio.Reader, out io.Writer, prompt, defaultValue string) string {
	promptStyle := lipgloss.NewStyle().
		Foreground(color.Cyan).
		Bold(true)

	defaultStyle := lipgloss.NewStyle().
		Foreground(color.White).
		Italic(true)

	if defaultValue != "" {
		fmt.Fprintf(out, "%s %s: ",
			promptStyle.Render(prompt),
			defaultStyle.Render("(default: "+defaultValue+")"))
	} else {
		fmt.Fprintf(out, "%s: ", promptStyle.Render(prompt))
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" && defaultValue != "" {
		return defaultValue
	}
	return input
}

func generateConfig(provider providers.Provider, model, apiKeyVar string, mode parser.Mode) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	data := ConfigData{
		Provider:  string(provider),
		Model:     model,
		APIKeyVar: apiKeyVar,
		Mode:      string(mode),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
