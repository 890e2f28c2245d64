// Package commands implements the habitctl administration CLI.
package commands

import (
	"habitlog-service/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habitctl",
		Short: "Administer a HabitLog deployment",
		Long: `habitctl applies database migrations and seeds the habit catalog
of a HabitLog deployment. It reads the same configuration as the service.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config (default $CONFIG_PATH or ./config/base.yaml)")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Load()
	}
	return config.LoadFile(configPath)
}
