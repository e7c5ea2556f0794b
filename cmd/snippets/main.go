// Package main provides the snippets CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/snippets/internal/config"
	"github.com/matsen/snippets/internal/logging"
	"github.com/matsen/snippets/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// Global overrides applied on top of the config file and environment.
var (
	configPath      string
	backendFlag     string
	dbFlag          string
	databaseURLFlag string
)

func main() {
	os.Exit(execute(os.Stderr))
}

// execute runs the root command, closes the log and returns the exit code.
func execute(stderr io.Writer) int {
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		return reportError(stderr, err)
	}
	return ExitSuccess
}

var rootCmd = &cobra.Command{
	Use:   "snippets",
	Short: "Store and retrieve snippets of text",
	Long: `snippets stores short named pieces of text in a database.

Commands:
  put      Store a snippet under a name (optionally hidden)
  get      Retrieve a snippet by name
  catalog  List the names of all visible snippets
  search   Find visible snippets containing a string
  config   Show or change configuration

Snippets live in SQLite by default (~/.local/share/snippets/snippets.db).
Set backend: postgres and database_url in ~/.config/snippets/config.yml to
use PostgreSQL instead. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/snippets/config.yml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&databaseURLFlag, "database-url", "", "PostgreSQL connection URL")
	rootCmd.Version = Version
}

// reportError prints err in the selected output format and returns the exit code.
func reportError(w io.Writer, err error) int {
	code := ExitError
	var withExitCode interface{ ExitCode() int }
	if errors.As(err, &withExitCode) {
		code = withExitCode.ExitCode()
	}

	if humanOutput {
		fmt.Fprintf(w, "error: %s\n", err)
	} else {
		outputJSON(w, ErrorResponse{Error: err.Error()})
	}
	return code
}

// loadConfig resolves configuration from .env, the config file, the
// environment and command-line flags, in increasing priority.
func loadConfig() (*config.Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if dbFlag != "" {
		cfg.DBPath = config.ExpandPath(dbFlag)
	}
	if databaseURLFlag != "" {
		cfg.DatabaseURL = databaseURLFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore loads configuration, starts the debug log and opens the store.
// The caller is responsible for calling Close() on the returned store.
func openStore(ctx context.Context) (storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, exitErrorf(ExitConfigError, "loading config: %v", err)
	}

	logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Version: Version})

	s, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, exitErrorf(ExitError, "opening database: %v", err)
	}
	return s, nil
}
