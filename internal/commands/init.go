package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gharkhata/gharkhata/internal/config"
)

func newInitCommand(configPath *string) *cobra.Command {
	var name string
	var owner string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new household ledger",
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
			return runInit(cmd, absDir, name, owner, currency)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "household name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&owner, "owner", "", "owner display name (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&currency, "currency", "INR", "currency code")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, owner, currency string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, "gharkhata.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name, owner)
	cfg.Currency = currency
	cfg.Store.Path = filepath.Join(dir, "gharkhata.db")
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Provision the household and seed the default categories.
	ctx := cmd.Context()
	a, err := openApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.categories.Seed(ctx); err != nil {
		return err
	}

	h, err := a.household.Get(ctx)
	if err != nil {
		return err
	}
	cfg.Household.ID = h.ID
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized household %q (invite code %s)\n", h.Name, h.InviteCode)
	return nil
}
