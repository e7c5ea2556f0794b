package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List visible snippet names",
	Long: `List the names of all snippets that are not hidden, in ascending order.

Example:
  snippets catalog --human`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	keywords, err := s.Catalog(ctx)
	if err != nil {
		return exitErrorf(ExitError, "listing snippets: %v", err)
	}

	out := cmd.OutOrStdout()
	if humanOutput {
		if len(keywords) == 0 {
			outputHuman(out, "No snippets found.\n")
			return nil
		}
		for _, k := range keywords {
			outputHuman(out, "%s\n", k)
		}
		return nil
	}
	return outputJSON(out, keywords)
}
