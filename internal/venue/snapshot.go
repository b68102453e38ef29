package venue

import (
	"context"
	"strconv"
	"strings"
	"sync"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/internal/models"
)

// FetchPositionSnapshot issues the three account reads needed to value open
// positions (margin state, mark prices, open orders) concurrently and joins
// them. If any branch fails after its retries, the whole snapshot fails: a
// partial snapshot with a stale mark price would corrupt unrealized PnL and
// liquidation-distance math.
func (c *Client) FetchPositionSnapshot(ctx context.Context, wallet string) (*models.PositionSnapshot, error) {
	var (
		wg       sync.WaitGroup
		state    *RawClearinghouseState
		mids     map[string]string
		orders   []RawOpenOrder
		stateErr error
		midsErr  error
		orderErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		state, stateErr = c.fetchClearinghouseState(ctx, wallet)
	}()
	go func() {
		defer wg.Done()
		mids, midsErr = c.fetchAllMids(ctx)
	}()
	go func() {
		defer wg.Done()
		orders, orderErr = c.fetchOpenOrders(ctx, wallet)
	}()
	wg.Wait()

	for _, err := range []error{stateErr, midsErr, orderErr} {
		if err != nil {
			return nil, apperrors.Wrap(err, "position snapshot")
		}
	}

	return &models.PositionSnapshot{
		Margins:  buildMargins(state),
		Marks:    buildMarks(mids),
		Triggers: buildTriggers(orders),
	}, nil
}

// buildMargins converts clearinghouse positions into per-asset margin state.
// Zero-size entries are skipped.
func buildMargins(state *RawClearinghouseState) map[string]models.MarginState {
	margins := make(map[string]models.MarginState)
	for _, ap := range state.AssetPositions {
		pos := ap.Position
		size, err := strconv.ParseFloat(pos.Szi, 64)
		if err != nil || size == 0 {
			continue
		}

		var liq *float64
		if pos.LiquidationPx != "" {
			if v, err := strconv.ParseFloat(pos.LiquidationPx, 64); err == nil {
				liq = &v
			}
		}

		margins[pos.Coin] = models.MarginState{
			Asset:            pos.Coin,
			Leverage:         pos.Leverage.Value,
			LiquidationPrice: liq,
			MarginUsed:       parseOrZero(pos.MarginUsed),
			PositionValue:    parseOrZero(pos.PositionValue),
			UnrealizedPnL:    parseOrZero(pos.UnrealizedPnl),
			EntryPrice:       parseOrZero(pos.EntryPx),
			Size:             size,
		}
	}
	return margins
}

// buildMarks parses the mid-price map.
func buildMarks(mids map[string]string) map[string]float64 {
	marks := make(map[string]float64, len(mids))
	for asset, raw := range mids {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			marks[asset] = v
		}
	}
	return marks
}

// buildTriggers groups position TP/SL trigger orders by asset.
func buildTriggers(orders []RawOpenOrder) map[string]models.TriggerLevels {
	triggers := make(map[string]models.TriggerLevels)
	for _, order := range orders {
		if !order.IsPositionTpsl || order.TriggerPx == "" {
			continue
		}
		price, err := strconv.ParseFloat(order.TriggerPx, 64)
		if err != nil {
			continue
		}

		levels := triggers[order.Coin]
		switch {
		case strings.Contains(order.OrderType, "Take Profit"):
			p := price
			levels.TakeProfit = &p
		case strings.Contains(order.OrderType, "Stop"):
			p := price
			levels.StopLoss = &p
		}
		triggers[order.Coin] = levels
	}
	return triggers
}
