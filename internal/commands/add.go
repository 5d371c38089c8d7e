package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gharkhata/gharkhata/internal/analytics"
	"github.com/gharkhata/gharkhata/internal/ledger"
	"github.com/gharkhata/gharkhata/internal/model"
)

func newAddCommand(configPath *string) *cobra.Command {
	var (
		account     string
		amountStr   string
		txType      string
		category    string
		date        string
		description string
		transferTo  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountStr, err)
			}
			when := time.Now()
			if date != "" {
				when, err = time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("parsing date %q: %w", date, err)
				}
			}
			accountID, err := a.findAccount(ctx, account)
			if err != nil {
				return err
			}

			params := ledger.CreateParams{
				Date:        when,
				Amount:      amount,
				Type:        model.TransactionType(strings.ToUpper(txType)),
				AccountID:   accountID,
				Description: description,
			}
			if transferTo != "" {
				params.Type = model.TypeTransfer
				params.TransferAccountID, err = a.findAccount(ctx, transferTo)
				if err != nil {
					return err
				}
			}
			if category != "" {
				cats, err := a.categories.GetAll(ctx)
				if err != nil {
					return err
				}
				for _, c := range cats {
					if strings.EqualFold(c.Name, category) {
						params.CategoryID = c.ID
						break
					}
				}
				if params.CategoryID == "" {
					return fmt.Errorf("no category named %q", category)
				}
			}

			txn, err := a.ledger.Create(ctx, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s (%s)\n",
				txn.Type, analytics.FormatCurrency(txn.Amount, a.cfg.Currency), txn.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "funding account or card, by name or id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&amountStr, "amount", "", "positive amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&txType, "type", "EXPENSE", "INCOME, EXPENSE, TRANSFER, INVESTMENT or DEBT")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringVar(&transferTo, "to", "", "transfer destination account (implies --type TRANSFER)")

	return cmd
}
