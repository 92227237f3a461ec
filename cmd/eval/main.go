package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// evalOptions locates the cases table, the config and the results log.
type evalOptions struct {
	casesFile   string
	configFile  string
	resultsFile string
	cases       []string
}

func main() {
	log.SetReportTimestamp(false)

	if err := newEvalCmd().Execute(); err != nil {
		log.Error("Evaluation failed", "err", err)
		os.Exit(1)
	}
}

func newEvalCmd() *cobra.Command {
	evalDir := "evals"
	opts := evalOptions{
		casesFile:   filepath.Join(evalDir, "qa_cases.csv"),
		configFile:  filepath.Join(evalDir, "eval-config.yaml"),
		resultsFile: filepath.Join(evalDir, "results.csv"),
	}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the ContextQA evaluation cases",
		Long: "Runs every row of the cases CSV (name,context,question,expected) through the QA service.\n" +
			"Full runs append a summary row to the results file; runs limited with --cases do not.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, c := range opts.cases {
				opts.cases[i] = strings.TrimSpace(c)
			}
			return RunEvaluation(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&opts.cases, "cases", nil, "comma-separated list of specific cases to run (e.g., change-basic,total-rs)")
	cmd.Flags().StringVar(&opts.casesFile, "cases-file", opts.casesFile, "CSV file with name,context,question,expected rows")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", opts.configFile, "qakit config used for the model fallback")
	cmd.Flags().StringVar(&opts.resultsFile, "results", opts.resultsFile, "CSV file full runs append their summary to")

	return cmd
}
