package journal

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"hyperliquid-journal/internal/models"
)

// fillSeq builds a valid single-asset fill history from generated leg sizes:
// each leg opens a random size, then closes it across one or two fills.
func fillSeq(legSizes []float64, splitClose []bool) []models.Fill {
	var fills []models.Fill
	id := 1
	ts := int64(1000)

	next := func(action models.Action, price, size, fee float64) models.Fill {
		f := models.Fill{
			ID:         fmt.Sprintf("%d", id),
			Wallet:     "0xabc",
			Asset:      "ETH",
			MarketKind: models.MarketPerp,
			Direction:  models.DirectionLong,
			Action:     action,
			Price:      price,
			Size:       size,
			Fee:        fee,
			Timestamp:  ts,
		}
		id++
		ts += 1000
		return f
	}

	for i, size := range legSizes {
		fills = append(fills, next(models.ActionOpen, 100, size, size*0.01))
		if splitClose[i%len(splitClose)] && size > 0.2 {
			half := size / 2
			fills = append(fills, next(models.ActionClose, 105, half, half*0.01))
			fills = append(fills, next(models.ActionClose, 110, size-half, (size-half)*0.01))
		} else {
			fills = append(fills, next(models.ActionClose, 110, size, size*0.01))
		}
	}
	return fills
}

// Property: every unit of size opened and then closed appears in exactly one
// round trip, so the round-trip sizes sum to the total closed size.
func TestProperty_ClosedSizeIsConserved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("round-trip sizes sum to total closed size", prop.ForAll(
		func(legSizes []float64, splitClose []bool) bool {
			if len(splitClose) == 0 {
				splitClose = []bool{false}
			}
			fills := fillSeq(legSizes, splitClose)
			result := Reconstruct(fills)

			if len(result.Gaps) != 0 {
				return false
			}

			var closed, reconstructed float64
			for _, f := range fills {
				if f.Action == models.ActionClose {
					closed += f.Size
				}
			}
			for _, rt := range result.RoundTrips {
				reconstructed += rt.Size
			}
			return math.Abs(closed-reconstructed) < 1e-6
		},
		gen.SliceOf(gen.Float64Range(0.1, 50.0)),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

// Property: reconstruction is a pure function of the fill history. Running it
// twice over the same fills yields identical round trips, so a cache rebuild
// can never change what the user sees.
func TestProperty_ReconstructionIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("two passes over the same fills agree", prop.ForAll(
		func(legSizes []float64) bool {
			fills := fillSeq(legSizes, []bool{true, false})
			first := Reconstruct(fills)
			second := Reconstruct(fills)

			if len(first.RoundTrips) != len(second.RoundTrips) {
				return false
			}
			for i := range first.RoundTrips {
				a, b := first.RoundTrips[i], second.RoundTrips[i]
				if a.ID != b.ID || a.Size != b.Size || a.EntryPrice != b.EntryPrice || a.Fees != b.Fees {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.1, 50.0)),
	))

	properties.TestingRun(t)
}

// Property: entry fees are never created or destroyed. Once a lot is fully
// consumed, the fee shares handed to its round trips sum to the fees paid on
// the contributing opens.
func TestProperty_EntryFeesAreConserved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("fee shares sum to fees paid", prop.ForAll(
		func(legSizes []float64) bool {
			fills := fillSeq(legSizes, []bool{true})
			result := Reconstruct(fills)

			var paid, attributed float64
			for _, f := range fills {
				paid += f.Fee
			}
			for _, rt := range result.RoundTrips {
				attributed += rt.Fees
			}
			return math.Abs(paid-attributed) < 1e-6
		},
		gen.SliceOf(gen.Float64Range(0.1, 50.0)),
	))

	properties.TestingRun(t)
}

// Property: funding never touches spot round trips, whatever the ledger says.
func TestProperty_SpotFundingIsAlwaysZero(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("spot round trips carry zero funding", prop.ForAll(
		func(amounts []float64) bool {
			roundTrips := []models.RoundTrip{
				{Asset: "@107", MarketKind: models.MarketSpot, EntryTime: 0, ExitTime: math.MaxInt64},
			}
			events := make([]models.FundingEvent, len(amounts))
			for i, amt := range amounts {
				events[i] = models.FundingEvent{Asset: "@107", Amount: amt, Timestamp: int64(i * 1000)}
			}

			ApplyFunding(roundTrips, events)
			return roundTrips[0].Funding == 0
		},
		gen.SliceOf(gen.Float64Range(-100.0, 100.0)),
	))

	properties.TestingRun(t)
}
