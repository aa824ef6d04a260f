package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lang-portal/internal/shared/database"
	"lang-portal/internal/studysessions"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all study sessions and word review items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config

			db, err := database.Open(cfg.DBDriver, cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			svc := studysessions.NewSessionService(studysessions.NewSessionRepository(db))
			res, err := svc.ResetSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Study history cleared successfully (%d review items, %d sessions deleted)\n",
				res.ReviewItemsDeleted, res.SessionsDeleted)
			return nil
		},
	}
}
