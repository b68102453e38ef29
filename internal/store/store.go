// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"hyperliquid-journal/internal/models"
)

// DataStore defines the interface for data persistence. Fills and funding
// events are append-only: once ingested they are never mutated, except for
// the user-owned notes column.
type DataStore interface {
	// Fills
	SaveFills(ctx context.Context, fills []models.Fill) (int, error)
	GetFills(ctx context.Context, wallet string) ([]models.Fill, error)

	// Notes (stored on the fill row; round-trip notes live on the exit fill)
	GetFillNotes(ctx context.Context, fillID string) (string, error)
	SetFillNotes(ctx context.Context, fillID, notes string) (wallet string, err error)

	// Funding
	SaveFunding(ctx context.Context, wallet string, events []models.FundingEvent) (int, error)
	GetFunding(ctx context.Context, wallet string) ([]models.FundingEvent, error)

	// Sync bookkeeping
	GetLastSync(wallet string) time.Time
	SetLastSync(wallet string, t time.Time) error

	// Lifecycle
	Close() error
}
