package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "hyperliquid-journal/internal/errors"
)

// newNotesCmd creates the notes command.
func newNotesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id> <text>",
		Short: "Attach notes to a fill or round trip",
		Long: `Attach free-text notes to a fill or round trip.
Round-trip notes (ids starting with "rt_") are stored on the exit fill and
survive recomputation.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			text := strings.Join(args[1:], " ")

			err := app.Journal.UpdateNotes(cmd.Context(), id, text)
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("no trade with id %s", id)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Notes updated for %s\n", id)
			return nil
		},
	}
}
