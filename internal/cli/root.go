// Package cli provides the command-line interface for the journal application.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hyperliquid-journal/internal/config"
	"hyperliquid-journal/internal/journal"
	"hyperliquid-journal/internal/logging"
	"hyperliquid-journal/internal/store"
	"hyperliquid-journal/internal/venue"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Venue   *venue.Client
	Journal *journal.Service

	wallet string
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:     "journal",
		Short:   "Hyperliquid trade journal",
		Long:    "Reconstructs round-trip trades with net P&L from Hyperliquid fill history.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
			}
			return app.init()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&app.wallet, "wallet", "w", "", "wallet address (overrides config)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newSyncCmd(app),
		newRoundTripsCmd(app),
		newPositionsCmd(app),
		newAssetsCmd(app),
		newNotesCmd(app),
		newExportCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}

// init wires the store, venue client and journal service.
func (a *App) init() error {
	dataStore, err := store.NewSQLiteStore(a.Config.Store.Path)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	a.Store = dataStore
	a.Logger.Debug().Str("path", a.Config.Store.Path).Msg("SQLite store initialized")

	a.Venue = venue.NewClient(venue.ClientConfig{
		APIURL:         a.Config.Venue.APIURL,
		RequestTimeout: a.Config.Venue.RequestTimeout,
		RatePerSecond:  a.Config.Venue.RatePerSecond,
	}, a.Logger)

	a.Journal = journal.NewService(a.Store, a.Venue, a.Config.Cache.TTL, a.Logger)
	return nil
}

// Wallet resolves the wallet address from the flag or config.
func (a *App) Wallet() (string, error) {
	if a.wallet != "" {
		return a.wallet, nil
	}
	if a.Config.Wallet != "" {
		return a.Config.Wallet, nil
	}
	return "", fmt.Errorf("no wallet address: pass --wallet or set wallet in config")
}

// Execute runs the CLI.
func Execute(cfg *config.Config) error {
	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Console = cfg.Log.Console
	logCfg.File = cfg.Log.File
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := NewRootCmd(cfg, logger)
	return rootCmd.Execute()
}
