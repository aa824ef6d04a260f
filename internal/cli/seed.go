package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lang-portal/internal/seed"
	"lang-portal/internal/shared/database"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed --file <fixtures.yaml>",
		Short: "Load groups, study activities and words from a YAML file",
		Long: `Load reference data from a YAML fixture file.

Rows are upserted by id, so running the same file twice is safe.
Entries without an id are always inserted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := seed.Load(file)
			if err != nil {
				return err
			}

			cfg := rootOpts.Config
			db, err := database.Open(cfg.DBDriver, cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			res, err := seed.Apply(cmd.Context(), db, fixtures)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d groups, %d study activities, %d words\n",
				res.Groups, res.StudyActivities, res.Words)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
