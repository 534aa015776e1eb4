package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minibooks-dev/minibooks/internal/bank"
	"github.com/minibooks-dev/minibooks/internal/importer"
	"github.com/minibooks-dev/minibooks/internal/logging"
)

func newImportCommand(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <bank-account-id> <file.csv>",
		Short: "Import a bank statement CSV, skipping duplicates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid bank account id %q", args[0])
			}

			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (have: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			rows, err := parser.Parse(f)
			if err != nil {
				return err
			}

			_, st, err := openWorkspace(*configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := bank.NewService(st, logging.WithComponent("bank")).Import(accountID, rows)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d transactions, skipped %d duplicates\n", result.Imported, result.Duplicates)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "statement format")
	return cmd
}
