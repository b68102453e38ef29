package venue

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/internal/models"
)

// NormalizeFills converts raw venue fills into canonical fills. Records
// missing an id, asset, price, size or timestamp are dropped and logged;
// zero-filling them would corrupt the weighted-average math downstream.
func NormalizeFills(wallet string, raw []RawFill, logger zerolog.Logger) []models.Fill {
	fills := make([]models.Fill, 0, len(raw))
	for _, rf := range raw {
		fill, err := NormalizeFill(wallet, rf)
		if err != nil {
			logger.Warn().Err(err).
				Str("asset", rf.Coin).
				Int64("time", rf.Time).
				Msg("dropping malformed fill")
			continue
		}
		fills = append(fills, fill)
	}
	return fills
}

// NormalizeFill converts a single raw fill. It classifies the market kind
// from the asset symbol's shape and derives direction and action from the
// raw side and dir fields.
func NormalizeFill(wallet string, rf RawFill) (models.Fill, error) {
	id := fillID(rf)
	if id == "" {
		return models.Fill{}, apperrors.NewValidationError("fill", "id", "neither tid nor oid set")
	}
	if rf.Coin == "" {
		return models.Fill{}, apperrors.NewValidationError("fill", "asset", "empty coin")
	}
	if rf.Time == 0 {
		return models.Fill{}, apperrors.NewValidationError("fill", "timestamp", "zero time")
	}

	price, err := parsePositive(rf.Px)
	if err != nil {
		return models.Fill{}, apperrors.NewValidationError("fill", "price", rf.Px)
	}
	size, err := parsePositive(rf.Sz)
	if err != nil {
		return models.Fill{}, apperrors.NewValidationError("fill", "size", rf.Sz)
	}

	isSpot := strings.HasPrefix(rf.Coin, models.SpotAssetPrefix)

	var direction models.Direction
	var action models.Action
	if isSpot {
		// Spot has no shorting: a buy opens a long, a sell closes it.
		direction = models.DirectionLong
		if rf.Side == sideBuy {
			action = models.ActionOpen
		} else {
			action = models.ActionClose
		}
	} else {
		if strings.Contains(rf.Dir, dirMarkerLong) {
			direction = models.DirectionLong
		} else {
			direction = models.DirectionShort
		}
		if strings.Contains(rf.Dir, dirMarkerOpen) {
			action = models.ActionOpen
		} else {
			action = models.ActionClose
		}
	}

	kind := models.MarketPerp
	if isSpot {
		kind = models.MarketSpot
	}

	return models.Fill{
		ID:         id,
		Wallet:     wallet,
		Asset:      rf.Coin,
		MarketKind: kind,
		Direction:  direction,
		Action:     action,
		Price:      price,
		Size:       size,
		PnL:        parseOrZero(rf.ClosedPnl),
		Fee:        parseOrZero(rf.Fee),
		Timestamp:  rf.Time,
		Hash:       rf.Hash,
		OrderID:    rf.OID,
	}, nil
}

// NormalizeFunding converts raw funding records into funding events,
// dropping malformed entries under the same fail-closed rule as fills.
func NormalizeFunding(raw []RawFunding, logger zerolog.Logger) []models.FundingEvent {
	events := make([]models.FundingEvent, 0, len(raw))
	for _, rf := range raw {
		if rf.Delta.Coin == "" || rf.Time == 0 {
			logger.Warn().
				Str("asset", rf.Delta.Coin).
				Int64("time", rf.Time).
				Msg("dropping malformed funding record")
			continue
		}
		amount, err := strconv.ParseFloat(rf.Delta.USDC, 64)
		if err != nil {
			logger.Warn().Err(err).
				Str("asset", rf.Delta.Coin).
				Str("usdc", rf.Delta.USDC).
				Msg("dropping funding record with unparsable amount")
			continue
		}
		events = append(events, models.FundingEvent{
			Asset:     rf.Delta.Coin,
			Amount:    amount,
			Timestamp: rf.Time,
			Hash:      rf.Hash,
		})
	}
	return events
}

// fillID prefers the trade id and falls back to the order id.
func fillID(rf RawFill) string {
	if rf.TID != 0 {
		return strconv.FormatInt(rf.TID, 10)
	}
	if rf.OID != 0 {
		return strconv.FormatInt(rf.OID, 10)
	}
	return ""
}

func parsePositive(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func parseOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
