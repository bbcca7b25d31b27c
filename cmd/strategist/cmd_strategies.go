package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newStrategiesCmd() *cobra.Command {
	var (
		id     string
		search string
	)

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List, search, or inspect persisted strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			a, err := newApp(configPath)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if id != "" {
				strategy, err := a.Store.Get(id)
				if err != nil {
					return err
				}
				return enc.Encode(strategy)
			}

			var results any
			if search != "" {
				results, err = a.Store.Search(search)
			} else {
				results, err = a.Store.List()
			}
			if err != nil {
				return err
			}
			return enc.Encode(results)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "print one strategy by id")
	cmd.Flags().StringVar(&search, "search", "", "filter the listing by a substring of the brief's goal")

	return cmd
}
