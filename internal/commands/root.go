// Package commands wires the minibooks CLI.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/minibooks-dev/minibooks/internal/buildinfo"
	"github.com/minibooks-dev/minibooks/internal/config"
	"github.com/minibooks-dev/minibooks/internal/logging"
	"github.com/minibooks-dev/minibooks/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "minibooks",
		Short:   "Double-entry bookkeeping for small businesses",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; it only carries dev overrides.
			_ = godotenv.Load()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to minibooks.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newStatusCommand(&configPath))
	rootCmd.AddCommand(newChartCommand(&configPath))
	rootCmd.AddCommand(newImportCommand(&configPath))
	rootCmd.AddCommand(newRecurringCommand(&configPath))

	return rootCmd
}

// openWorkspace loads the config and opens the ledger database.
func openWorkspace(configPath string) (*config.Config, store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		return nil, nil, fmt.Errorf("configuring logging: %w", err)
	}
	st, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
