package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rejot-dev/qakit/internal/parser"
)

func newDedupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedup [file]",
		Short: "Trim lines, drop empty ones and remove near-duplicates",
		Long:  "Reads the file (or stdin) and prints each distinct line once. Lines count as duplicates when they\nmatch after lowercasing and dropping everything except letters and digits.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "-"
			if len(args) == 1 {
				file = args[0]
			}

			text, err := readInput(cmd, "", file, nil)
			if err != nil {
				return err
			}

			cleaned := parser.CleanAndDedup(text)
			if cleaned == "" {
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cleaned)
			return err
		},
	}
}
