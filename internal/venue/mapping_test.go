package venue

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/internal/models"
)

func validRawFill() RawFill {
	return RawFill{
		Coin:      "ETH",
		Px:        "3000.5",
		Sz:        "0.25",
		Side:      sideBuy,
		Time:      1700000000000,
		Dir:       "Open Long",
		ClosedPnl: "0.0",
		Hash:      "0xhash",
		OID:       42,
		TID:       900001,
		Fee:       "0.75",
	}
}

func TestNormalizeFillPerp(t *testing.T) {
	fill, err := NormalizeFill("0xabc", validRawFill())
	require.NoError(t, err)

	assert.Equal(t, "900001", fill.ID)
	assert.Equal(t, "0xabc", fill.Wallet)
	assert.Equal(t, models.MarketPerp, fill.MarketKind)
	assert.Equal(t, models.DirectionLong, fill.Direction)
	assert.Equal(t, models.ActionOpen, fill.Action)
	assert.InDelta(t, 3000.5, fill.Price, 1e-9)
	assert.InDelta(t, 0.25, fill.Size, 1e-9)
	assert.InDelta(t, 0.75, fill.Fee, 1e-9)
	assert.Equal(t, int64(42), fill.OrderID)
}

func TestNormalizeFillPerpDirections(t *testing.T) {
	cases := []struct {
		dir       string
		direction models.Direction
		action    models.Action
	}{
		{"Open Long", models.DirectionLong, models.ActionOpen},
		{"Close Long", models.DirectionLong, models.ActionClose},
		{"Open Short", models.DirectionShort, models.ActionOpen},
		{"Close Short", models.DirectionShort, models.ActionClose},
	}

	for _, tc := range cases {
		t.Run(tc.dir, func(t *testing.T) {
			raw := validRawFill()
			raw.Dir = tc.dir
			fill, err := NormalizeFill("0xabc", raw)
			require.NoError(t, err)
			assert.Equal(t, tc.direction, fill.Direction)
			assert.Equal(t, tc.action, fill.Action)
		})
	}
}

func TestNormalizeFillSpotBuyOpensSellCloses(t *testing.T) {
	raw := validRawFill()
	raw.Coin = "@107"
	raw.Dir = "Buy" // spot dir strings are ignored; side decides

	fill, err := NormalizeFill("0xabc", raw)
	require.NoError(t, err)
	assert.Equal(t, models.MarketSpot, fill.MarketKind)
	assert.Equal(t, models.DirectionLong, fill.Direction)
	assert.Equal(t, models.ActionOpen, fill.Action)

	raw.Side = sideSell
	fill, err = NormalizeFill("0xabc", raw)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionLong, fill.Direction)
	assert.Equal(t, models.ActionClose, fill.Action)
}

func TestNormalizeFillFallsBackToOrderID(t *testing.T) {
	raw := validRawFill()
	raw.TID = 0

	fill, err := NormalizeFill("0xabc", raw)
	require.NoError(t, err)
	assert.Equal(t, "42", fill.ID)
}

func TestNormalizeFillRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawFill)
	}{
		{"no ids", func(rf *RawFill) { rf.TID = 0; rf.OID = 0 }},
		{"empty coin", func(rf *RawFill) { rf.Coin = "" }},
		{"zero time", func(rf *RawFill) { rf.Time = 0 }},
		{"unparsable price", func(rf *RawFill) { rf.Px = "n/a" }},
		{"zero price", func(rf *RawFill) { rf.Px = "0" }},
		{"negative size", func(rf *RawFill) { rf.Sz = "-1" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRawFill()
			tc.mutate(&raw)
			_, err := NormalizeFill("0xabc", raw)
			require.Error(t, err)

			var ve *apperrors.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestNormalizeFillsDropsMalformedKeepsRest(t *testing.T) {
	good := validRawFill()
	bad := validRawFill()
	bad.Px = "garbage"

	fills := NormalizeFills("0xabc", []RawFill{good, bad}, zerolog.Nop())
	require.Len(t, fills, 1)
	assert.Equal(t, "900001", fills[0].ID)
}

func TestNormalizeFunding(t *testing.T) {
	raw := []RawFunding{
		{Time: 1000, Hash: "0x1", Delta: RawFundingDelta{Type: "funding", Coin: "ETH", USDC: "-0.42"}},
		{Time: 2000, Hash: "0x2", Delta: RawFundingDelta{Type: "funding", Coin: "", USDC: "1.0"}},      // no coin
		{Time: 3000, Hash: "0x3", Delta: RawFundingDelta{Type: "funding", Coin: "BTC", USDC: "oops"}}, // bad amount
	}

	events := NormalizeFunding(raw, zerolog.Nop())
	require.Len(t, events, 1)
	assert.Equal(t, "ETH", events[0].Asset)
	assert.InDelta(t, -0.42, events[0].Amount, 1e-9)
	assert.Equal(t, int64(1000), events[0].Timestamp)
}
