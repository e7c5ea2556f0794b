package main

import (
	"log/slog"

	"github.com/matsen/snippets/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <string>",
	Short: "Find snippets containing a string",
	Long: `Find visible snippets whose text contains a string.

Matching is a case-sensitive substring match. Characters such as % and _
match themselves; there is no pattern syntax. Hidden snippets are never
returned.

Examples:
  snippets search echo
  snippets search "100%"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	logging.WithComponent("cli").Debug("Searching snippets", slog.String("query", query))
	matches, err := s.Search(ctx, query)
	if err != nil {
		return exitErrorf(ExitError, "searching: %v", err)
	}
	results := toSearchResults(matches)

	out := cmd.OutOrStdout()
	if humanOutput {
		if len(results) == 0 {
			outputHuman(out, "No snippets found.\n")
			return nil
		}
		outputHuman(out, "%s", formatSearchHuman(results))
		return nil
	}
	return outputJSON(out, results)
}
