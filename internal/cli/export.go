package cli

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"hyperliquid-journal/internal/models"
)

// exportRow is the CSV shape of one round trip.
type exportRow struct {
	ID          string  `csv:"id"`
	Asset       string  `csv:"asset"`
	DisplayName string  `csv:"display_name"`
	MarketKind  string  `csv:"market"`
	Direction   string  `csv:"side"`
	Size        float64 `csv:"size"`
	EntryPrice  float64 `csv:"entry_price"`
	ExitPrice   float64 `csv:"exit_price"`
	PnL         float64 `csv:"pnl"`
	Fees        float64 `csv:"fees"`
	Funding     float64 `csv:"funding"`
	NetPnL      float64 `csv:"net_pnl"`
	EntryTime   string  `csv:"entry_time"`
	ExitTime    string  `csv:"exit_time"`
	DurationMin float64 `csv:"duration_min"`
	Notes       string  `csv:"notes"`
}

// newExportCmd creates the export command.
func newExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export round trips to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := app.Wallet()
			if err != nil {
				return err
			}

			roundTrips, err := app.Journal.RoundTrips(cmd.Context(), wallet)
			if err != nil {
				return err
			}

			rows := make([]*exportRow, 0, len(roundTrips))
			for _, rt := range roundTrips {
				rows = append(rows, toExportRow(rt))
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer file.Close()

			if err := gocsv.MarshalFile(&rows, file); err != nil {
				return fmt.Errorf("writing CSV: %w", err)
			}

			fmt.Printf("Exported %d round trips to %s\n", len(rows), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "roundtrips.csv", "output file path")
	return cmd
}

func toExportRow(rt models.RoundTrip) *exportRow {
	return &exportRow{
		ID:          rt.ID,
		Asset:       rt.Asset,
		DisplayName: rt.DisplayName,
		MarketKind:  string(rt.MarketKind),
		Direction:   string(rt.Direction),
		Size:        rt.Size,
		EntryPrice:  rt.EntryPrice,
		ExitPrice:   rt.ExitPrice,
		PnL:         rt.PnL,
		Fees:        rt.Fees,
		Funding:     rt.Funding,
		NetPnL:      rt.NetPnL(),
		EntryTime:   FormatTime(rt.EntryTime),
		ExitTime:    FormatTime(rt.ExitTime),
		DurationMin: rt.Duration().Minutes(),
		Notes:       rt.Notes,
	}
}
