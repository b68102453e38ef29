package venue

import (
	"context"

	"hyperliquid-journal/internal/models"
)

// FetchFills fetches and normalizes the fill history for a wallet.
// Malformed raw records are dropped and logged, never surfaced as errors.
func (c *Client) FetchFills(ctx context.Context, wallet string) ([]models.Fill, error) {
	raw, err := c.FetchRawFills(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return NormalizeFills(wallet, raw, c.logger), nil
}

// FetchFunding fetches and normalizes the funding ledger for a wallet.
func (c *Client) FetchFunding(ctx context.Context, wallet string) ([]models.FundingEvent, error) {
	raw, err := c.FetchRawFunding(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return NormalizeFunding(raw, c.logger), nil
}
