package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gharkhata/gharkhata/internal/analytics"
	"github.com/gharkhata/gharkhata/internal/model"
)

func newStatsCommand(configPath *string) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show monthly totals and the expense breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now()
			from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

			txns, err := a.ledger.GetByDateRange(ctx, from, now)
			if err != nil {
				return err
			}
			cats, err := a.categories.GetAll(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, stat := range analytics.MonthlyStats(txns, from, now) {
				fmt.Fprintf(out, "%s  income %s  expense %s  net %s  (savings rate %s%%)\n",
					stat.Month,
					analytics.FormatCurrency(stat.Income, a.cfg.Currency),
					analytics.FormatCurrency(stat.Expense, a.cfg.Currency),
					analytics.FormatCurrency(stat.Net, a.cfg.Currency),
					analytics.SavingsRate(stat.Income, stat.Expense))
			}

			fmt.Fprintln(out, "\nExpense breakdown:")
			for _, share := range analytics.CategoryBreakdown(txns, cats, model.TypeExpense) {
				fmt.Fprintf(out, "  %-24s %12s  %6s%%\n",
					share.Name,
					analytics.FormatCurrency(share.Amount, a.cfg.Currency),
					share.Percent)
			}

			total, err := a.accounts.CalculateTotalBalance(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal balance: %s\n", analytics.FormatCurrency(total, a.cfg.Currency))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 1, "how many months back to include")
	return cmd
}
