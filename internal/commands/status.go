package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minibooks-dev/minibooks/internal/bank"
	"github.com/minibooks-dev/minibooks/internal/customers"
	"github.com/minibooks-dev/minibooks/internal/invoices"
	"github.com/minibooks-dev/minibooks/internal/logging"
	"github.com/minibooks-dev/minibooks/internal/vendors"
)

func newStatusCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger health: receivables, payables, bank balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openWorkspace(*configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			today := time.Now()
			invSummary, err := invoices.NewService(st, logging.WithComponent("invoices")).GetSummary(today)
			if err != nil {
				return err
			}
			receivables, err := customers.NewService(st, logging.WithComponent("customers")).TotalReceivables()
			if err != nil {
				return err
			}
			payables, err := vendors.NewService(st, logging.WithComponent("vendors")).TotalPayables()
			if err != nil {
				return err
			}
			bankSummary, err := bank.NewService(st, logging.WithComponent("bank")).GetSummary()
			if err != nil {
				return err
			}

			fmt.Printf("%s\n\n", cfg.Business.Name)
			fmt.Printf("Receivables:   %s (%d invoices open, %d overdue)\n",
				receivables.StringFixed(2), invSummary.TotalInvoices-invSummary.PaidCount, invSummary.OverdueCount)
			fmt.Printf("Payables:      %s\n", payables.StringFixed(2))
			fmt.Printf("Bank accounts: %d, cash %s, credit %s, %d unreconciled transactions\n",
				bankSummary.TotalAccounts, bankSummary.TotalCashBalance.StringFixed(2),
				bankSummary.TotalCreditBalance.StringFixed(2), bankSummary.Unreconciled)
			return nil
		},
	}
}
