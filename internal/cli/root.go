// Package cli implements the langportal command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lang-portal/internal/app"
	"lang-portal/internal/shared/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile   string
	DBPath    string
	DBDriver  string
	LogLevel  string
	LogFormat string

	// Config is populated before any subcommand runs.
	Config *app.Config
}

// NewRootCommand creates the root command for the langportal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "langportal",
		Short: "Language learning portal backend",
		Long:  "Serves the study sessions API and manages its SQLite store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to a .env file (default ./.env when present)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides LANGPORTAL_DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.DBDriver, "db-driver", "", "database driver: sqlite3 or sqlite (overrides LANGPORTAL_DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// load reads configuration, applies flag overrides and installs the logger.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := app.LoadConfig(o.EnvFile)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.DBDriver != "" {
		cfg.DBDriver = o.DBDriver
	}
	if o.LogLevel != "" {
		if _, err := logging.ParseLevel(o.LogLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		if o.LogFormat != "text" && o.LogFormat != "json" {
			return fmt.Errorf("invalid --log-format %q: must be text or json", o.LogFormat)
		}
		cfg.LogFormat = o.LogFormat
	}

	logging.InitWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	o.Config = cfg
	return nil
}
