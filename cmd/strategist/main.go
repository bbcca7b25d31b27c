// Command strategist is the CLI entry point for the strategy
// intelligence pipeline (spec §6): it can run one analysis, list or
// inspect persisted strategies, validate an input file without
// running the pipeline, or serve the local HTTP playground.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strategist",
		Short: "Local-first strategy intelligence pipeline for content creators",
		Long: `strategist ingests a creator's past-performance CSV/XLSX and a creative
brief, mines keywords, detects competitor content gaps, drafts an LLM-assisted
video strategy, and persists it as a versioned artifact.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to a YAML config file (env: CONFIG_PATH)")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newStrategiesCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newServeCmd())

	return root
}
