package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/config"
)

var (
	dbPath     string
	configFile string
	logLevel   string
	jsonLogs   bool

	// cfg and logger are set by the root command before any subcommand runs.
	cfg    *config.Config
	logger *logrus.Logger

	// RootCmd is the root command for basketminer
	RootCmd = &cobra.Command{
		Use:   "basketminer",
		Short: "Frequent itemset and association rule mining for market baskets",
		Long: `basketminer finds the item combinations that occur together in at least a
minimum number of transactions, and the association rules "customers who buy
X also buy Y" that hold with at least a minimum confidence.

Transaction files are headerless CSV, one basket per line:

  Milk,Bread,Cheese
  Soda,Chips

Support thresholds are either a transaction count ("3") or a fraction of the
transaction count ("0.1" or "10%"). Every run is recorded in a local SQLite
database and can be reviewed with 'basketminer history'.

Quick Start:
  1. basketminer generate --dir data
  2. basketminer mine data/database1.csv --min-support 0.2
  3. basketminer compare data/*.csv --min-support 4
  4. basketminer history

Settings are read from $XDG_CONFIG_HOME/basketminer/config.yaml and
BASKETMINER_* environment variables; flags take precedence over both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "basketminer: frequent itemset and association rule mining")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'basketminer generate' to create sample transaction files.")
			fmt.Fprintln(out, "Run 'basketminer --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.basketminer/basketminer.db)")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/basketminer/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(generateCmd)
	RootCmd.AddCommand(mineCmd)
	RootCmd.AddCommand(compareCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// setup loads configuration and logging for the command about to run.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	l, err := newLogger(c.LogLevel, c.JSONLogs, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, logger = c, l
	if c.File != "" {
		logger.WithField("file", c.File).Debug("loaded config file")
	}
	return nil
}

// getDBPath returns the database path, using the configured value or default
func getDBPath() (string, error) {
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, nil
	}
	if dbPath != "" {
		return dbPath, nil
	}

	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "basketminer.db"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}

// dataDir returns ~/.basketminer, creating it if needed.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".basketminer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create basketminer directory: %w", err)
	}
	return dir, nil
}
