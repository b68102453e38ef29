package journal

import (
	"sort"

	"hyperliquid-journal/internal/models"
)

// exposure tracks the still-open tail of the fill stream for one asset and
// direction, the simpler sibling of the round-trip lot.
type exposure struct {
	direction models.Direction
	size      float64
	notional  float64
}

// ValuePositions replays the fill history to find assets with nonzero net
// exposure and values them against the snapshot's mark prices. Leverage,
// margin and liquidation figures are venue-reported inputs taken from the
// snapshot's margin state, not derived here.
func ValuePositions(fills []models.Fill, snap *models.PositionSnapshot) []models.OpenPosition {
	open := replayExposure(fills)

	positions := make([]models.OpenPosition, 0, len(open))
	for asset, exp := range open {
		if exp.size <= sizeEpsilon {
			continue
		}

		entry := exp.notional / exp.size
		mark := snap.Marks[asset]

		sign := 1.0
		if exp.direction == models.DirectionShort {
			sign = -1.0
		}

		pos := models.OpenPosition{
			Asset:         asset,
			DisplayName:   asset,
			Direction:     exp.direction,
			Size:          exp.size,
			EntryPrice:    entry,
			MarkPrice:     mark,
			UnrealizedPnL: (mark - entry) * exp.size * sign,
			PositionValue: mark * exp.size,
		}

		if margin, ok := snap.Margins[asset]; ok {
			pos.Leverage = margin.Leverage
			pos.LiquidationPrice = margin.LiquidationPrice
			pos.MarginUsed = margin.MarginUsed
			if margin.PositionValue > 0 {
				pos.PositionValue = margin.PositionValue
			}
			// The venue's own entry is authoritative when the synced fill
			// history does not reach back to the position's origin.
			if entry == 0 && margin.EntryPrice > 0 {
				pos.EntryPrice = margin.EntryPrice
				pos.UnrealizedPnL = margin.UnrealizedPnL
			}
		}

		if levels, ok := snap.Triggers[asset]; ok {
			pos.TakeProfit = levels.TakeProfit
			pos.StopLoss = levels.StopLoss
		}

		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].PositionValue > positions[j].PositionValue
	})
	return positions
}

// replayExposure nets the fill stream into per-asset open exposure. A close
// beyond the current exposure flips the remainder to the opposite side at
// the close price, mirroring the round-trip reconstruction.
func replayExposure(fills []models.Fill) map[string]*exposure {
	sorted := make([]models.Fill, len(fills))
	copy(sorted, fills)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return fillIDLess(sorted[i].ID, sorted[j].ID)
	})

	open := make(map[string]*exposure)
	for _, fill := range sorted {
		exp, ok := open[fill.Asset]
		if !ok {
			exp = &exposure{direction: fill.Direction}
			open[fill.Asset] = exp
		}

		switch {
		case fill.Action == models.ActionOpen && (exp.size <= sizeEpsilon || exp.direction == fill.Direction):
			if exp.size <= sizeEpsilon {
				exp.direction = fill.Direction
				exp.size = 0
				exp.notional = 0
			}
			exp.size += fill.Size
			exp.notional += fill.Price * fill.Size

		case fill.Action == models.ActionClose && exp.direction == fill.Direction:
			closed := fill.Size
			if closed > exp.size {
				closed = exp.size
			}
			if exp.size > sizeEpsilon {
				exp.notional -= exp.notional * (closed / exp.size)
			}
			exp.size -= closed

			excess := fill.Size - closed
			if excess > sizeEpsilon {
				exp.direction = fill.Direction.Opposite()
				exp.size = excess
				exp.notional = fill.Price * excess
			}

		default:
			// An open against existing exposure on the other side reduces
			// it; closes on the wrong side have no exposure to consume.
			if fill.Action == models.ActionOpen {
				reduced := fill.Size
				if reduced > exp.size {
					reduced = exp.size
				}
				if exp.size > sizeEpsilon {
					exp.notional -= exp.notional * (reduced / exp.size)
				}
				exp.size -= reduced
			}
		}

		if exp.size <= sizeEpsilon {
			delete(open, fill.Asset)
		}
	}
	return open
}
