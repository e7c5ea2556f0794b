package main

import (
	"log/slog"

	"github.com/matsen/snippets/internal/logging"
	"github.com/matsen/snippets/internal/snippet"
	"github.com/spf13/cobra"
)

var putHidden bool

func init() {
	putCmd.Flags().BoolVar(&putHidden, "hidden", false, "Hide the snippet from catalog and search")
	rootCmd.AddCommand(putCmd)
}

var putCmd = &cobra.Command{
	Use:   "put <name> <snippet>",
	Short: "Store a snippet",
	Long: `Store a snippet under a name.

Storing under an existing name replaces its text. --hidden keeps the snippet
out of catalog and search; it can still be retrieved with get. A hidden
snippet stays hidden when it is stored again.

Examples:
  snippets put shell "rm -rf /"
  snippets put token "s3cr3t" --hidden`,
	Args: cobra.ExactArgs(2),
	RunE: runPut,
}

func runPut(cmd *cobra.Command, args []string) error {
	name, text := args[0], args[1]
	if err := snippet.ValidateKeyword(name); err != nil {
		return exitErrorf(ExitDataError, "%v", err)
	}

	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	logging.WithComponent("cli").Debug("Storing snippet", slog.String("keyword", name), slog.Bool("hidden", putHidden))
	stored, err := s.Put(ctx, name, text, putHidden)
	if err != nil {
		return exitErrorf(ExitError, "storing snippet: %v", err)
	}

	out := cmd.OutOrStdout()
	if humanOutput {
		outputHuman(out, "Stored %q as %q\n", stored.Message, stored.Keyword)
		return nil
	}
	return outputJSON(out, stored)
}
