package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memtensor/songbook/pkg/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search online chord sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := search.New(cfg.Search, newLogger(cmd.ErrOrStderr(), cfg))

			results, err := client.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, results)
			}
			if len(results) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return err
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{r.ID, r.Title, r.Artist, r.Source.Site, r.Source.URL}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Artist", "Site", "URL"}, rows))
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	return cmd
}
