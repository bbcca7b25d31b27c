package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/pipeline"
	"github.com/creatorstack/strategist/internal/thumbnail"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		creatorPath     string
		competitorPaths []string
		goal            string
		audience        string
		tone            string
		languageHint    string
		thumbnailsDir   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the pipeline once against a creator CSV/XLSX and print the resulting strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			if !model.ValidTones[model.Tone(tone)] {
				return errorkit.New(errorkit.InvalidInput, fmt.Sprintf("tone %q is not recognized", tone))
			}

			creatorCSV, err := os.ReadFile(creatorPath)
			if err != nil {
				return errorkit.Wrap(errorkit.InvalidInput, "failed to read creator file", err)
			}

			var competitorCSVs [][]byte
			for _, p := range competitorPaths {
				if p == "" {
					continue
				}
				csv, err := os.ReadFile(p)
				if err != nil {
					return errorkit.Wrap(errorkit.InvalidInput, fmt.Sprintf("failed to read competitor file %q", p), err)
				}
				competitorCSVs = append(competitorCSVs, csv)
			}

			input := pipeline.Input{
				Brief: model.Brief{
					Goal:         goal,
					Audience:     audience,
					Tone:         model.Tone(tone),
					LanguageHint: languageHint,
				},
				CreatorCSV:     creatorCSV,
				CompetitorCSVs: competitorCSVs,
			}

			strategy, err := a.Coord.Run(context.Background(), input)
			if err != nil {
				return err
			}

			if thumbnailsDir != "" && len(strategy.Candidates.ThumbnailLines) > 0 {
				paths, err := thumbnail.New(thumbnailsDir).RenderAll(strategy.Candidates.ThumbnailLines)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d thumbnail placeholder(s) to %s\n", len(paths), thumbnailsDir)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(strategy)
		},
	}

	cmd.Flags().StringVar(&creatorPath, "creator", "", "path to the creator's past-performance CSV/XLSX (required)")
	cmd.Flags().StringSliceVar(&competitorPaths, "competitors", nil, "optional comma-separated paths to competitor CSV/XLSX files for gap detection")
	cmd.Flags().StringVar(&goal, "goal", "", "the creator's stated goal for the next video (required)")
	cmd.Flags().StringVar(&audience, "audience", "", "a short description of the target audience (required)")
	cmd.Flags().StringVar(&tone, "tone", "", "one of: curiosity, authority, fear, persuasive, engaging (required)")
	cmd.Flags().StringVar(&languageHint, "language", "", "optional ISO-ish language hint")
	cmd.Flags().StringVar(&thumbnailsDir, "thumbnails-dir", "", "if set, write a placeholder PNG per thumbnail line into this directory")
	cmd.MarkFlagRequired("creator")
	cmd.MarkFlagRequired("goal")
	cmd.MarkFlagRequired("audience")
	cmd.MarkFlagRequired("tone")

	return cmd
}
