package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gharkhata/gharkhata/internal/importer"
)

func newImportCommand(configPath *string) *cobra.Command {
	var account string
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from a statement CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			accountID, err := a.findAccount(ctx, account)
			if err != nil {
				return err
			}
			cats, err := a.categories.GetAll(ctx)
			if err != nil {
				return err
			}

			res, err := importer.Import(ctx, a.ledger, accountID, rows, cats)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions (%d skipped)\n", res.Created, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "funding account, by name or id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&format, "format", "generic", "statement format")

	return cmd
}
