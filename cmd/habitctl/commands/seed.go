package commands

import (
	"fmt"

	"habitlog-service/internal/app"
	"habitlog-service/internal/catalog"

	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the habit catalog from a YAML file",
		Long: `Seed reads a habit catalog file, embeds the reference captions of every
habit and upserts the habits by name. Habits without references are
embedded from their description.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				for _, e := range entries {
					fmt.Fprintf(out, "%s (%d references)\n", e.Name, len(e.References))
				}
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			encoder, err := app.NewEncoder(cfg.Embedding)
			if err != nil {
				return err
			}

			store, err := app.OpenStore(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			seeded, err := catalog.Seed(cmd.Context(), store.Habits(), encoder, entries)
			for _, h := range seeded {
				fmt.Fprintf(out, "%s  %s\n", h.ID, h.Name)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Seeded %d habit(s)\n", len(seeded))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "config/habits.example.yaml", "catalog file to load")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without touching the store")

	return cmd
}
