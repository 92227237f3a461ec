package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rejot-dev/qakit/internal/export"
	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/report"
	"github.com/rejot-dev/qakit/internal/testcases"
)

type testCasesOptions struct {
	file    string
	mode    string
	csvPath string
	format  string
	showRaw bool
}

func newTestCasesCmd(root *rootOptions) *cobra.Command {
	opts := &testCasesOptions{}

	cmd := &cobra.Command{
		Use:   "testcases [user story...]",
		Short: "Generate test cases for a user story",
		Example: `  qakit testcases "As a user, I want to reset my password so that I can regain access."
  qakit testcases --mode bulleted --csv cases.csv --file story.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			story, err := readInput(cmd, "", opts.file, args)
			if err != nil {
				return err
			}

			format, err := report.ToFormat(opts.format)
			if err != nil {
				return err
			}

			app, err := root.load()
			if err != nil {
				return err
			}

			mode := app.config.Mode()
			if cmd.Flags().Changed("mode") {
				if mode, err = parser.ToMode(opts.mode); err != nil {
					return err
				}
			}

			result, err := app.testCases.Generate(cmd.Context(), story, mode)
			if errors.Is(err, testcases.ErrInputMissing) {
				log.Warn(err.Error())
				return nil
			}
			if err != nil {
				return err
			}

			report.New(format, cmd.OutOrStdout(), opts.showRaw).ReportTestCases(result)

			if warning := result.Warning(); warning != nil {
				log.Warn(warning.Error())
				return ErrorNoTestCases
			}

			if opts.csvPath != "" {
				if err := writeCSVFile(opts.csvPath, result); err != nil {
					return err
				}
				log.Info("Wrote CSV", "path", opts.csvPath, "rows", len(result.Rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the user story from a file (- for stdin)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "output mode: categorized or bulleted (default from config)")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "also write the table to this CSV file")
	cmd.Flags().StringVar(&opts.format, "format", string(report.FormatStdout), "output format: stdout or github")
	cmd.Flags().BoolVar(&opts.showRaw, "raw", false, "print the raw model output below the table")

	return cmd
}

func writeCSVFile(path string, result *testcases.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, result.Header, result.Rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
