package models

import "time"

// RoundTrip represents one reconstructed open-to-close trade cycle for a
// single asset and direction. It is derived deterministically from the fill
// history: the ID is RoundTripIDPrefix plus the closing fill's ID, so
// recomputation always yields the same entity. Notes are user-owned and
// survive recomputation by being re-merged by ID.
type RoundTrip struct {
	ID           string
	Asset        string
	DisplayName  string
	MarketKind   MarketKind
	Direction    Direction
	EntryPrice   float64 // size-weighted average over contributing opens
	ExitPrice    float64
	Size         float64
	PnL          float64 // venue-reported realized PnL of the closing fill
	Fees         float64 // proportional entry fees + exit fee
	Funding      float64 // signed funding carry over the trade window
	EntryTime    int64   // milliseconds, earliest contributing open
	ExitTime     int64   // milliseconds, closing fill
	EntryFillIDs []string
	ExitFillID   string
	Notes        string
}

// NetPnL is realized PnL minus fees plus funding. This is the only
// authoritative net figure; gross PnL alone is never "the" PnL.
func (rt RoundTrip) NetPnL() float64 {
	return rt.PnL - rt.Fees + rt.Funding
}

// Duration is the time between entry and exit.
func (rt RoundTrip) Duration() time.Duration {
	return time.Duration(rt.ExitTime-rt.EntryTime) * time.Millisecond
}

// RoundTripID derives the round-trip identifier for a closing fill ID.
func RoundTripID(exitFillID string) string {
	return RoundTripIDPrefix + exitFillID
}
