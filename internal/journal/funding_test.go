package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hyperliquid-journal/internal/models"
)

func TestApplyFundingSumsWindowInclusive(t *testing.T) {
	roundTrips := []models.RoundTrip{
		{Asset: "ETH", MarketKind: models.MarketPerp, EntryTime: 1000, ExitTime: 3000},
	}
	events := []models.FundingEvent{
		{Asset: "ETH", Amount: -0.5, Timestamp: 999},  // before entry
		{Asset: "ETH", Amount: 1.0, Timestamp: 1000},  // at entry, inclusive
		{Asset: "ETH", Amount: 2.0, Timestamp: 2000},  // inside
		{Asset: "ETH", Amount: 4.0, Timestamp: 3000},  // at exit, inclusive
		{Asset: "ETH", Amount: -8.0, Timestamp: 3001}, // after exit
		{Asset: "BTC", Amount: 100.0, Timestamp: 2000},
	}

	ApplyFunding(roundTrips, events)
	assert.InDelta(t, 7.0, roundTrips[0].Funding, 1e-9)
}

func TestApplyFundingSpotIsAlwaysZero(t *testing.T) {
	roundTrips := []models.RoundTrip{
		{Asset: "@107", MarketKind: models.MarketSpot, EntryTime: 1000, ExitTime: 3000},
	}
	events := []models.FundingEvent{
		{Asset: "@107", Amount: 5.0, Timestamp: 2000},
	}

	ApplyFunding(roundTrips, events)
	assert.Zero(t, roundTrips[0].Funding)
}

func TestApplyFundingNoEventsLeavesZero(t *testing.T) {
	roundTrips := []models.RoundTrip{
		{Asset: "ETH", MarketKind: models.MarketPerp, EntryTime: 1000, ExitTime: 3000},
	}
	ApplyFunding(roundTrips, nil)
	assert.Zero(t, roundTrips[0].Funding)
}

func TestNetPnLCombinesComponents(t *testing.T) {
	rt := models.RoundTrip{PnL: 40, Fees: 3, Funding: -2}
	assert.InDelta(t, 35.0, rt.NetPnL(), 1e-9)
}
