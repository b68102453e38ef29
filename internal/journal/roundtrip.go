// Package journal provides the core derivation pipeline: round-trip
// reconstruction, funding reconciliation, open-position valuation and the
// derived-view cache in front of them.
package journal

import (
	"sort"
	"strconv"
	"strings"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/internal/models"
)

// sizeEpsilon guards float comparisons on accumulated sizes.
const sizeEpsilon = 1e-9

// lotKey identifies one accumulation of open exposure. A lot never spans a
// sign change: a long and a short lot on the same asset are distinct.
type lotKey struct {
	asset     string
	direction models.Direction
}

// lot is the in-progress accumulation of open exposure awaiting closure.
type lot struct {
	size      float64 // accumulated open size
	notional  float64 // Σ price×size over contributing opens
	fees      float64 // accumulated entry fees for the open size
	fillIDs   []string
	notes     []string
	entryTime int64 // earliest contributing open still outstanding
}

// Result is the output of one reconstruction pass.
type Result struct {
	RoundTrips []models.RoundTrip
	Gaps       []apperrors.ReconciliationGap
}

// Reconstruct replays the fill history and emits one RoundTrip per
// completed open→close cycle, per asset and direction. Fills are processed
// in timestamp order, ties broken by the venue's monotonic fill id. Closes
// larger than the accumulated open exposure flip the position: the excess
// is re-injected as a synthetic open on the opposite side. Closes with no
// matching open lot are reported as reconciliation gaps, never fabricated
// into a round trip.
func Reconstruct(fills []models.Fill) Result {
	sorted := make([]models.Fill, len(fills))
	copy(sorted, fills)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return fillIDLess(sorted[i].ID, sorted[j].ID)
	})

	lots := make(map[lotKey]*lot)
	var result Result

	for _, fill := range sorted {
		switch fill.Action {
		case models.ActionOpen:
			applyOpen(lots, fill)
		case models.ActionClose:
			applyClose(lots, fill, &result)
		}
	}

	return result
}

// applyOpen adds a fill's size and notional to its lot.
func applyOpen(lots map[lotKey]*lot, fill models.Fill) {
	key := lotKey{asset: fill.Asset, direction: fill.Direction}
	l, ok := lots[key]
	if !ok {
		l = &lot{entryTime: fill.Timestamp}
		lots[key] = l
	}
	if l.size <= sizeEpsilon {
		l.entryTime = fill.Timestamp
	}
	l.size += fill.Size
	l.notional += fill.Price * fill.Size
	l.fees += fill.Fee
	l.fillIDs = append(l.fillIDs, fill.ID)
	if fill.Notes != "" {
		l.notes = append(l.notes, fill.Notes)
	}
}

// applyClose consumes open exposure and emits a RoundTrip. The excess of a
// close beyond the lot becomes a synthetic open on the opposite side.
func applyClose(lots map[lotKey]*lot, fill models.Fill, result *Result) {
	key := lotKey{asset: fill.Asset, direction: fill.Direction}
	l, ok := lots[key]
	if !ok || l.size <= sizeEpsilon {
		result.Gaps = append(result.Gaps, apperrors.ReconciliationGap{
			FillID:    fill.ID,
			Asset:     fill.Asset,
			Direction: string(fill.Direction),
			Reason:    "close with no open exposure in synced history",
		})
		return
	}

	closeSize := fill.Size
	if closeSize > l.size {
		closeSize = l.size
	}

	avgEntry := l.notional / l.size
	share := closeSize / l.size
	entryFees := l.fees * share

	notes := make([]string, 0, len(l.notes)+1)
	notes = append(notes, l.notes...)
	if fill.Notes != "" {
		notes = append(notes, fill.Notes)
	}

	rt := models.RoundTrip{
		ID:           models.RoundTripID(fill.ID),
		Asset:        fill.Asset,
		DisplayName:  fill.Asset,
		MarketKind:   fill.MarketKind,
		Direction:    fill.Direction,
		EntryPrice:   avgEntry,
		ExitPrice:    fill.Price,
		Size:         closeSize,
		PnL:          fill.PnL,
		Fees:         entryFees + fill.Fee,
		EntryTime:    l.entryTime,
		ExitTime:     fill.Timestamp,
		EntryFillIDs: append([]string(nil), l.fillIDs...),
		ExitFillID:   fill.ID,
		Notes:        strings.Join(notes, " | "),
	}
	result.RoundTrips = append(result.RoundTrips, rt)

	// Consume the lot proportionally.
	l.size -= closeSize
	l.notional -= l.notional * share
	l.fees -= entryFees
	if l.size <= sizeEpsilon {
		delete(lots, key)
	}

	// A close beyond the lot flips the position: the remainder opens a new
	// lot on the opposite side at the close price. Whether the venue
	// reports flip orders this way is an assumption, not a verified
	// invariant.
	excess := fill.Size - closeSize
	if excess > sizeEpsilon {
		applyOpen(lots, models.Fill{
			ID:         fill.ID,
			Wallet:     fill.Wallet,
			Asset:      fill.Asset,
			MarketKind: fill.MarketKind,
			Direction:  fill.Direction.Opposite(),
			Action:     models.ActionOpen,
			Price:      fill.Price,
			Size:       excess,
			Timestamp:  fill.Timestamp,
		})
	}
}

// fillIDLess orders venue fill ids, which are monotonically increasing
// integers rendered as strings.
func fillIDLess(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
