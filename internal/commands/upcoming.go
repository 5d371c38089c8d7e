package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gharkhata/gharkhata/internal/analytics"
)

func newUpcomingCommand(configPath *string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List recurring payments due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.recurring.GetUpcoming(ctx, days, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "Nothing due in the next %d days\n", days)
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "%s  %-24s %12s  %s\n",
					item.NextDueDate.Format("2006-01-02"),
					item.Name,
					analytics.FormatCurrency(item.Amount, a.cfg.Currency),
					item.Frequency)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 14, "look-ahead window in days")
	return cmd
}
