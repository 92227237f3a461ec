package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rejot-dev/qakit/internal/mathsolver"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/report"
)

type askOptions struct {
	context     string
	contextFile string
	question    string
	format      string
}

func (o *askOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.context, "context", "", "context paragraph")
	cmd.Flags().StringVar(&o.contextFile, "context-file", "", "read the context from a file (- for stdin)")
	cmd.Flags().StringVarP(&o.question, "question", "q", "", "question about the context (default: positional args)")
}

func (o *askOptions) inputs(cmd *cobra.Command, args []string) (string, string, error) {
	contextText, err := readInput(cmd, o.context, o.contextFile, nil)
	if err != nil {
		return "", "", err
	}
	question, err := readInput(cmd, o.question, "", args)
	if err != nil {
		return "", "", err
	}
	return contextText, question, nil
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Answer a question using only the given context",
		Example: `  qakit ask --context "Riya bought 3 pencils for ₹10 each and paid with a ₹50 note." "How much change did she get?"
  qakit ask --context-file article.txt -q "Who founded the company?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contextText, question, err := opts.inputs(cmd, args)
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

			answer, err := app.qa.Answer(cmd.Context(), contextText, question)
			if errors.Is(err, qa.ErrInputMissing) {
				log.Warn(err.Error())
				return nil
			}
			if err != nil {
				return err
			}

			report.New(format, cmd.OutOrStdout(), false).ReportAnswer(answer)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.format, "format", string(report.FormatStdout), "output format: stdout or github")

	return cmd
}

// newSolveCmd runs the arithmetic solver alone. It needs no config and never
// calls a model.
func newSolveCmd() *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "solve [question...]",
		Short: "Solve a simple shopping total or change problem without a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			contextText, question, err := opts.inputs(cmd, args)
			if err != nil {
				return err
			}

			symbol, answer, ok := mathsolver.TrySolve(contextText, question)
			if !ok {
				log.Warn("Could not solve this problem without a model")
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), mathsolver.Format(symbol, answer))
			return err
		},
	}

	opts.bind(cmd)
	return cmd
}
