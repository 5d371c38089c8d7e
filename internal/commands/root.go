package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gharkhata/gharkhata/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "gharkhata",
		Short:   "Local-first household finance ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "gharkhata.yaml", "path to gharkhata.yaml")

	rootCmd.AddCommand(newInitCommand(&configPath))
	rootCmd.AddCommand(newAddCommand(&configPath))
	rootCmd.AddCommand(newStatsCommand(&configPath))
	rootCmd.AddCommand(newUpcomingCommand(&configPath))
	rootCmd.AddCommand(newSnapshotCommand(&configPath))
	rootCmd.AddCommand(newImportCommand(&configPath))

	return rootCmd
}
