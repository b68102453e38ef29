package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hyperliquid-journal/internal/scheduler"
)

// newWatchCmd creates the watch command.
func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync the wallet on an interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := app.Wallet()
			if err != nil {
				return err
			}

			sched := scheduler.New(app.Config.Sync.Interval, func(ctx context.Context, w string) error {
				result, err := app.Journal.Sync(ctx, w)
				if err != nil {
					return err
				}
				if result.InsertedFills > 0 || result.InsertedFunding > 0 {
					fmt.Printf("synced %s: %d new fills, %d new funding events\n",
						w, result.InsertedFills, result.InsertedFunding)
				}
				return nil
			}, app.Logger)

			sched.Register(wallet)
			defer sched.Stop()

			// Sync once up front so the first interval isn't spent waiting.
			if result, err := app.Journal.Sync(cmd.Context(), wallet); err != nil {
				app.Logger.Warn().Err(err).Msg("initial sync failed")
			} else {
				fmt.Printf("synced %s: %d new fills, %d new funding events\n",
					wallet, result.InsertedFills, result.InsertedFunding)
			}

			fmt.Printf("watching %s every %s, press Ctrl+C to stop\n", wallet, app.Config.Sync.Interval)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh

			fmt.Println("\nstopping")
			return nil
		},
	}
}
