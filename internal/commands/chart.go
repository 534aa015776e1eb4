package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minibooks-dev/minibooks/internal/accounts"
	"github.com/minibooks-dev/minibooks/internal/logging"
)

func newChartCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "List the chart of accounts with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openWorkspace(*configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			all, err := accounts.NewService(st, logging.WithComponent("accounts")).List()
			if err != nil {
				return err
			}
			for _, a := range all {
				marker := " "
				if a.IsSystemAccount {
					marker = "*"
				}
				fmt.Printf("%s %-6s %-40s %10s  %s\n", marker, a.Number, a.Name, a.Balance.StringFixed(2), a.Type)
			}
			return nil
		},
	}
}
