// Package models provides domain models for the journal application.
package models

import "time"

// Direction represents the side of a position.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == DirectionLong {
		return DirectionShort
	}
	return DirectionLong
}

// Action represents whether a fill opens or closes exposure.
type Action string

const (
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// MarketKind represents the market a fill was executed on.
type MarketKind string

const (
	MarketPerp MarketKind = "perp"
	MarketSpot MarketKind = "spot"
)

// SpotAssetPrefix marks spot asset identifiers ("@107" style indices).
const SpotAssetPrefix = "@"

// RoundTripIDPrefix prefixes derived round-trip identifiers.
const RoundTripIDPrefix = "rt_"

// Fill represents one executed trade leg reported by the venue.
// Fills are immutable once ingested; only Notes is user-owned.
type Fill struct {
	ID         string
	Wallet     string
	Asset      string
	MarketKind MarketKind
	Direction  Direction
	Action     Action
	Price      float64
	Size       float64
	PnL        float64 // venue-reported closed PnL, 0 for opens
	Fee        float64
	Timestamp  int64 // milliseconds, exchange-assigned
	Hash       string
	OrderID    int64
	Notes      string
}

// Time returns the fill timestamp as a time.Time.
func (f Fill) Time() time.Time {
	return time.UnixMilli(f.Timestamp)
}

// IsSpot reports whether the fill's asset is a spot pair.
func (f Fill) IsSpot() bool {
	return f.MarketKind == MarketSpot
}

// FundingEvent represents one funding ledger entry for a perp asset.
// Amount is signed USD: positive received, negative paid.
type FundingEvent struct {
	Asset     string
	Amount    float64
	Timestamp int64 // milliseconds
	Hash      string
}

// Asset identifies a traded asset with its display name.
// Spot indices like "@107" resolve to readable pairs like "HYPE/USDC".
type Asset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
