package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minibooks-dev/minibooks/internal/journal"
	"github.com/minibooks-dev/minibooks/internal/logging"
	"github.com/minibooks-dev/minibooks/internal/recurring"
)

func newRecurringCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring journal entries",
	}
	cmd.AddCommand(newRecurringRunCommand(configPath))
	return cmd
}

func newRecurringRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Generate journal entries from all due templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openWorkspace(*configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			js := journal.NewService(st, logging.WithComponent("journal"))
			svc := recurring.NewService(st, js, logging.WithComponent("recurring"))

			generated, err := svc.GenerateDue(time.Now())
			if err != nil {
				return err
			}
			for _, e := range generated {
				fmt.Printf("Generated %s (%s) dated %s\n", e.EntryNumber, e.Status, e.Date.Format("2006-01-02"))
			}
			if len(generated) == 0 {
				fmt.Println("No templates due")
			}
			return nil
		},
	}
}
