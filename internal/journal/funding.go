package journal

import (
	"sort"

	"hyperliquid-journal/internal/models"
)

// ApplyFunding annotates round trips with their funding contribution: the
// sum of all funding amounts for the trade's asset inside its entry→exit
// window, inclusive on both ends. Spot round trips always carry zero
// funding; it is a perpetual-only mechanism.
func ApplyFunding(roundTrips []models.RoundTrip, events []models.FundingEvent) {
	if len(roundTrips) == 0 || len(events) == 0 {
		return
	}

	byAsset := make(map[string][]models.FundingEvent)
	for _, e := range events {
		byAsset[e.Asset] = append(byAsset[e.Asset], e)
	}
	for _, list := range byAsset {
		sort.Slice(list, func(i, j int) bool { return list[i].Timestamp < list[j].Timestamp })
	}

	for i := range roundTrips {
		rt := &roundTrips[i]
		if rt.MarketKind == models.MarketSpot {
			rt.Funding = 0
			continue
		}
		rt.Funding = fundingInWindow(byAsset[rt.Asset], rt.EntryTime, rt.ExitTime)
	}
}

// fundingInWindow sums amounts with from ≤ timestamp ≤ to over a
// timestamp-sorted event list.
func fundingInWindow(events []models.FundingEvent, from, to int64) float64 {
	start := sort.Search(len(events), func(i int) bool {
		return events[i].Timestamp >= from
	})

	var total float64
	for _, e := range events[start:] {
		if e.Timestamp > to {
			break
		}
		total += e.Amount
	}
	return total
}
