package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "hyperliquid-journal/internal/errors"
)

// newSyncCmd creates the sync command.
func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch new fills and funding from Hyperliquid",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := app.Wallet()
			if err != nil {
				return err
			}

			result, err := app.Journal.Sync(cmd.Context(), wallet)
			if apperrors.Is(err, apperrors.ErrSyncInProgress) {
				return fmt.Errorf("a sync for %s is already running", wallet)
			}
			if err != nil {
				return fmt.Errorf("sync failed, stored trades are unchanged: %w", err)
			}

			fmt.Printf("Synced %d fills (%d new), %d new funding events\n",
				result.TotalFills, result.InsertedFills, result.InsertedFunding)
			return nil
		},
	}
}
