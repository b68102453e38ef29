package journal

import (
	"context"
	"sync"
	"time"

	"hyperliquid-journal/internal/models"
)

// View is the derived output served for one wallet: the reconstructed
// round trips and the distinct assets they came from.
type View struct {
	RoundTrips []models.RoundTrip
	Assets     []models.Asset
}

// ViewCache memoizes derived views per wallet for a fixed TTL with explicit
// invalidation. TTL expiry and invalidation are the two writers of the same
// freshness state, so Get runs check-freshness, recompute and read as one
// critical section per wallet; a concurrent invalidate can never interleave
// with a stale write-back. Entries are keyed per wallet with one lock each,
// never a global lock around recomputation.
type ViewCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	mu          sync.Mutex
	view        *View
	populatedAt time.Time
}

// NewViewCache creates a cache with the given time-to-live.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached view for a wallet, rebuilding it via rebuild on a
// miss or after expiry/invalidation. A failed rebuild leaves any previous
// view untouched and is surfaced to the caller.
func (c *ViewCache) Get(ctx context.Context, wallet string, rebuild func(context.Context) (*View, error)) (*View, error) {
	entry := c.entry(wallet)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.view != nil && time.Since(entry.populatedAt) < c.ttl {
		return entry.view, nil
	}

	view, err := rebuild(ctx)
	if err != nil {
		return nil, err
	}

	entry.view = view
	entry.populatedAt = time.Now()
	return view, nil
}

// Invalidate forces the next Get for a wallet to recompute. Every write
// path that changes the inputs (a sync, a notes edit) must call this
// synchronously; serving a stale view afterwards is a correctness bug.
func (c *ViewCache) Invalidate(wallet string) {
	c.mu.Lock()
	entry, ok := c.entries[wallet]
	c.mu.Unlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.view = nil
	entry.populatedAt = time.Time{}
	entry.mu.Unlock()
}

// entry returns the per-wallet entry, creating it on first use.
func (c *ViewCache) entry(wallet string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[wallet]
	if !ok {
		entry = &cacheEntry{}
		c.entries[wallet] = entry
	}
	return entry
}
