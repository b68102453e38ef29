package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"hyperliquid-journal/internal/models"
)

// newPositionsCmd creates the positions command.
func newPositionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "positions",
		Aliases: []string{"pos"},
		Short:   "Show open positions valued at current marks",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := app.Wallet()
			if err != nil {
				return err
			}

			positions, err := app.Journal.Positions(cmd.Context(), wallet)
			if err != nil {
				return err
			}
			if len(positions) == 0 {
				fmt.Println("No open positions.")
				return nil
			}

			renderPositions(positions)
			return nil
		},
	}
}

// renderPositions prints the open-position table.
func renderPositions(positions []models.OpenPosition) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Asset", "Side", "Size", "Entry", "Mark", "uPnL", "Lev", "Liq", "TP", "SL")

	for _, pos := range positions {
		table.Append(
			pos.DisplayName,
			string(pos.Direction),
			fmt.Sprintf("%.4f", pos.Size),
			FormatPrice(pos.EntryPrice),
			FormatPrice(pos.MarkPrice),
			FormatSignedUSD(pos.UnrealizedPnL),
			fmt.Sprintf("%.0fx", pos.Leverage),
			formatOptionalPrice(pos.LiquidationPrice),
			formatOptionalPrice(pos.TakeProfit),
			formatOptionalPrice(pos.StopLoss),
		)
	}
	table.Render()
}

func formatOptionalPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return FormatPrice(*p)
}
