package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSnapshotCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Publish the shared monthly snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			householdID, err := a.sess.HouseholdID()
			if err != nil {
				return err
			}
			if err := a.snapshot.Publish(ctx, householdID, time.Now()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot published")
			return nil
		},
	}
}
