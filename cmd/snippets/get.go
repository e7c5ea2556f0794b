package main

import (
	"log/slog"

	"github.com/matsen/snippets/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Retrieve a snippet",
	Long: `Retrieve the snippet stored under a name, hidden or not.

A missing name is not an error: get prints "404: Snippet Not Found"
(or "found": false in JSON) and exits 0.

Example:
  snippets get shell`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	logging.WithComponent("cli").Debug("Retrieving snippet", slog.String("keyword", name))
	sn, err := s.Get(ctx, name)
	if err != nil {
		return exitErrorf(ExitError, "getting snippet: %v", err)
	}

	out := cmd.OutOrStdout()
	if humanOutput {
		outputHuman(out, "%s\n", formatGetHuman(sn))
		return nil
	}
	return outputJSON(out, newGetResponse(name, sn))
}
