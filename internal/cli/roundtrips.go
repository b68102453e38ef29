package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"hyperliquid-journal/internal/models"
)

// newRoundTripsCmd creates the roundtrips command.
func newRoundTripsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "roundtrips",
		Aliases: []string{"rt", "trades"},
		Short:   "Show reconstructed round-trip trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := app.Wallet()
			if err != nil {
				return err
			}

			roundTrips, err := app.Journal.RoundTrips(cmd.Context(), wallet)
			if err != nil {
				return err
			}
			if len(roundTrips) == 0 {
				fmt.Println("No trades found. Run `journal sync` first.")
				return nil
			}

			if limit > 0 && len(roundTrips) > limit {
				roundTrips = roundTrips[:limit]
			}
			renderRoundTrips(roundTrips)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n trades (0 = all)")
	return cmd
}

// renderRoundTrips prints the round-trip table, newest exit first.
func renderRoundTrips(roundTrips []models.RoundTrip) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Asset", "Side", "Size", "Entry", "Exit", "Fees", "Funding", "Net P&L", "Held", "Closed")

	var totalNet float64
	for _, rt := range roundTrips {
		totalNet += rt.NetPnL()
		table.Append(
			rt.ID,
			rt.DisplayName,
			string(rt.Direction),
			fmt.Sprintf("%.4f", rt.Size),
			FormatPrice(rt.EntryPrice),
			FormatPrice(rt.ExitPrice),
			FormatUSD(rt.Fees),
			FormatSignedUSD(rt.Funding),
			FormatSignedUSD(rt.NetPnL()),
			FormatDuration(rt.Duration()),
			FormatTime(rt.ExitTime),
		)
	}
	table.Render()

	fmt.Printf("\n%d round trips, net P&L %s\n", len(roundTrips), FormatSignedUSD(totalNet))
}
