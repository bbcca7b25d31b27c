package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creatorstack/strategist/internal/csvvalidate"
	"github.com/creatorstack/strategist/internal/errorkit"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a CSV/XLSX file against the tabular input rules without running the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return errorkit.Wrap(errorkit.InvalidInput, "failed to read file", err)
			}

			limits := csvvalidate.Limits{
				MaxBytes:    a.Options.MaxCSVBytes,
				MaxRows:     a.Options.MaxCSVRows,
				MaxCellRuns: a.Options.MaxCellRuns,
			}
			result, err := csvvalidate.Validate(raw, limits)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "valid: %d rows accepted\n", len(result.Rows))
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		},
	}
	return cmd
}
