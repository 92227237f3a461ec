package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rejot-dev/qakit/internal/buildinfo"
	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/providers"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

// ErrorNoTestCases is returned after the raw model output has been shown
// because nothing could be parsed from it. It has already been reported.
var ErrorNoTestCases = errors.New("no test cases parsed")

const defaultConfigPath = "qakit.yaml"

type rootOptions struct {
	configPath string
	debug      bool
}

// app bundles the loaded config with the services built on one shared,
// lazily constructed generator.
type app struct {
	config    *config.Config
	testCases *testcases.Service
	qa        *qa.Service
}

func newApp(cfg *config.Config) *app {
	generator := providers.NewShared(func() (providers.Generator, error) {
		return providers.CreateGenerator(cfg)
	})
	return &app{
		config:    cfg,
		testCases: testcases.NewService(generator, cfg),
		qa:        qa.NewService(generator, cfg),
	}
}

func (o *rootOptions) load() (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	log.Debug("Loaded config", "path", o.configPath, "provider", cfg.Provider, "model", cfg.Model)
	return newApp(cfg), nil
}

func Execute() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "qakit",
		Short: "Generate test cases from user stories and answer questions about a context",
		Long: "qakit puts a text generation model behind two QA tools: a test case generator that turns a user\n" +
			"story into a table, and ContextQA which answers questions using only a given context.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "show debug logs")

	rootCmd.AddCommand(
		newInitCmd(),
		newTestCasesCmd(opts),
		newAskCmd(opts),
		newSolveCmd(),
		newDedupCmd(),
		newServeCmd(opts),
		newShowConfigCmd(opts),
	)

	return rootCmd
}

func newShowConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Print the full configuration with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			data, err := cfg.MarshalMasked()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

// readInput returns the flag value when set, otherwise the contents of file
// ("-" reads stdin), otherwise the positional args joined by spaces.
func readInput(cmd *cobra.Command, value, file string, args []string) (string, error) {
	if value != "" {
		return value, nil
	}
	if file != "" {
		var r io.Reader = cmd.InOrStdin()
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return "", fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}
