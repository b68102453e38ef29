package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newAssetsCmd creates the assets command.
func newAssetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List traded assets with display names",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := app.Wallet()
			if err != nil {
				return err
			}

			assets, err := app.Journal.Assets(cmd.Context(), wallet)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				fmt.Println("No traded assets found. Run `journal sync` first.")
				return nil
			}

			for _, asset := range assets {
				if asset.Name != asset.ID {
					fmt.Printf("%-10s %s\n", asset.ID, asset.Name)
				} else {
					fmt.Println(asset.ID)
				}
			}
			return nil
		},
	}
}
