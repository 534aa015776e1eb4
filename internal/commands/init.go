package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/minibooks-dev/minibooks/internal/accounts"
	"github.com/minibooks-dev/minibooks/internal/config"
	"github.com/minibooks-dev/minibooks/internal/logging"
	"github.com/minibooks-dev/minibooks/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new minibooks ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, name, entityType)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "llc_single_member", "entity type")

	return cmd
}

func runInit(dir, name, entityType string) error {
	cfg := config.Default(name, entityType)
	cfg.Database.Path = filepath.Join(dir, cfg.Database.Path)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	st, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := accounts.NewService(st, logging.WithComponent("accounts"))
	if err := svc.SeedDefaults(); err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}

	fmt.Printf("Initialized minibooks ledger for %s at %s\n", name, dir)
	return nil
}
