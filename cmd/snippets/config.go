package main

import (
	"strings"

	"github.com/matsen/snippets/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  snippets config                         # Show effective config
  snippets config backend                 # Get specific value
  snippets config backend postgres        # Set value in the config file
  snippets config database-url postgres://localhost/snippets

Keys:
  backend       Storage backend (sqlite, postgres)
  db-path       SQLite database file
  database-url  PostgreSQL connection URL
  log-file      Debug log file
  log-level     Debug log level (debug, info, warn, error)

Shown values include environment overrides (SNIPPETS_BACKEND, SNIPPETS_DB,
SNIPPETS_DATABASE_URL, SNIPPETS_LOG_FILE, SNIPPETS_LOG_LEVEL); set only
writes the config file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := configPath
	if path == "" {
		path = config.ConfigPath()
	}

	// Reading shows what a command would actually use
	if len(args) < 2 {
		cfg, err := loadConfig()
		if err != nil {
			return exitErrorf(ExitConfigError, "loading config: %v", err)
		}

		if len(args) == 0 {
			if humanOutput {
				outputHuman(out, "backend:      %s\n", cfg.Backend)
				outputHuman(out, "db-path:      %s\n", cfg.DBPath)
				outputHuman(out, "database-url: %s\n", orUnset(config.RedactURL(cfg.DatabaseURL)))
				outputHuman(out, "log-file:     %s\n", cfg.LogFile)
				outputHuman(out, "log-level:    %s\n", cfg.LogLevel)
				outputHuman(out, "config-file:  %s\n", path)
				return nil
			}
			return outputJSON(out, ConfigResponse{
				Backend:     cfg.Backend,
				DBPath:      cfg.DBPath,
				DatabaseURL: config.RedactURL(cfg.DatabaseURL),
				LogFile:     cfg.LogFile,
				LogLevel:    cfg.LogLevel,
				ConfigFile:  path,
			})
		}

		key := normalizeKey(args[0])
		value, ok := configValue(cfg, key)
		if !ok {
			return exitErrorf(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			outputHuman(out, "%s\n", value)
			return nil
		}
		return outputJSON(out, map[string]string{strings.ReplaceAll(key, "-", "_"): value})
	}

	// Setting edits only the file, never persisting environment overrides
	key, value := normalizeKey(args[0]), args[1]
	cfg, err := config.LoadFile(path)
	if err != nil {
		return exitErrorf(ExitConfigError, "loading config: %v", err)
	}

	switch key {
	case "backend":
		if err := config.ValidateBackend(value); err != nil {
			return exitErrorf(ExitConfigError, "%v", err)
		}
		cfg.Backend = value
	case "db-path":
		cfg.DBPath = config.ExpandPath(value)
	case "database-url":
		cfg.DatabaseURL = value
	case "log-file":
		if err := config.ValidateLogFile(value); err != nil {
			return exitErrorf(ExitConfigError, "%v", err)
		}
		cfg.LogFile = config.ExpandPath(value)
	case "log-level":
		if err := config.ValidateLogLevel(value); err != nil {
			return exitErrorf(ExitConfigError, "%v", err)
		}
		cfg.LogLevel = value
	default:
		return exitErrorf(ExitError, "unknown configuration key: %s", args[0])
	}

	if err := cfg.Save(path); err != nil {
		return exitErrorf(ExitError, "saving config: %v", err)
	}

	display := value
	if key == "database-url" {
		display = config.RedactURL(value)
	}
	if humanOutput {
		outputHuman(out, "Updated %s to %s\n", key, display)
		return nil
	}
	return outputJSON(out, UpdateResponse{Status: "updated", Key: key, Value: display})
}

// configValue returns the effective value for a normalized key.
func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "backend":
		return cfg.Backend, true
	case "db-path":
		return cfg.DBPath, true
	case "database-url":
		return config.RedactURL(cfg.DatabaseURL), true
	case "log-file":
		return cfg.LogFile, true
	case "log-level":
		return cfg.LogLevel, true
	default:
		return "", false
	}
}

// normalizeKey converts key formats (db-path, db_path, DB_PATH) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

// orUnset marks empty values in human output.
func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
