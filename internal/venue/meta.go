package venue

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hyperliquid-journal/internal/models"
)

// DisplayName resolves an asset id to a readable name. Perp assets are
// already readable ("BTC"); spot indices ("@107") resolve through the spot
// metadata to a pair name like "HYPE/USDC". Unknown indices fall back to
// the raw id.
func (c *Client) DisplayName(ctx context.Context, asset string) string {
	if !strings.HasPrefix(asset, models.SpotAssetPrefix) {
		return asset
	}

	names, err := c.spotNameMap(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("asset", asset).Msg("spot metadata unavailable")
		return asset
	}

	index := strings.TrimPrefix(asset, models.SpotAssetPrefix)
	if name, ok := names[index]; ok && name != "" {
		return name
	}
	return asset
}

// spotNameMap returns the cached spot index → name mapping, fetching the
// metadata on first use. The lock covers the fetch so concurrent callers
// never trigger duplicate requests.
func (c *Client) spotNameMap(ctx context.Context) (map[string]string, error) {
	c.metaMu.Lock()
	defer c.metaMu.Unlock()

	if c.spotNames != nil {
		return c.spotNames, nil
	}

	var meta RawSpotMeta
	if err := c.post(ctx, infoRequest{Type: reqSpotMeta}, &meta); err != nil {
		return nil, err
	}

	tokenNames := make(map[int]string, len(meta.Tokens))
	for _, t := range meta.Tokens {
		tokenNames[t.Index] = t.Name
	}

	names := make(map[string]string, len(meta.Universe))
	for _, pair := range meta.Universe {
		name := pair.Name
		// Index-shaped names get rebuilt from their token pair; token 0 is
		// always USDC.
		if name == "" || strings.HasPrefix(name, models.SpotAssetPrefix) {
			if len(pair.Tokens) >= 2 {
				base := tokenNames[pair.Tokens[0]]
				quote := tokenNames[pair.Tokens[1]]
				if base != "" {
					if pair.Tokens[1] == 0 {
						quote = "USDC"
					}
					if quote == "" {
						quote = "?"
					}
					name = fmt.Sprintf("%s/%s", base, quote)
				}
			}
		}
		names[strconv.Itoa(pair.Index)] = name
	}

	c.spotNames = names
	return names, nil
}
