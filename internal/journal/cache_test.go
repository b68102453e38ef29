package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperliquid-journal/internal/models"
)

func TestViewCacheServesSameViewWithinTTL(t *testing.T) {
	cache := NewViewCache(time.Minute)
	rebuilds := 0
	rebuild := func(context.Context) (*View, error) {
		rebuilds++
		return &View{RoundTrips: []models.RoundTrip{{ID: "rt_1"}}}, nil
	}

	first, err := cache.Get(context.Background(), "0xabc", rebuild)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), "0xabc", rebuild)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, rebuilds)
}

func TestViewCacheRecomputesAfterExpiry(t *testing.T) {
	cache := NewViewCache(10 * time.Millisecond)
	rebuilds := 0
	rebuild := func(context.Context) (*View, error) {
		rebuilds++
		return &View{}, nil
	}

	_, err := cache.Get(context.Background(), "0xabc", rebuild)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cache.Get(context.Background(), "0xabc", rebuild)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilds)
}

func TestViewCacheInvalidateForcesRecompute(t *testing.T) {
	cache := NewViewCache(time.Minute)
	rebuilds := 0
	rebuild := func(context.Context) (*View, error) {
		rebuilds++
		return &View{}, nil
	}

	_, err := cache.Get(context.Background(), "0xabc", rebuild)
	require.NoError(t, err)

	cache.Invalidate("0xabc")

	_, err = cache.Get(context.Background(), "0xabc", rebuild)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilds)
}

func TestViewCacheKeysPerWallet(t *testing.T) {
	cache := NewViewCache(time.Minute)
	rebuilds := map[string]int{}
	rebuildFor := func(wallet string) func(context.Context) (*View, error) {
		return func(context.Context) (*View, error) {
			rebuilds[wallet]++
			return &View{}, nil
		}
	}

	_, err := cache.Get(context.Background(), "0xaaa", rebuildFor("0xaaa"))
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "0xbbb", rebuildFor("0xbbb"))
	require.NoError(t, err)

	cache.Invalidate("0xaaa")

	_, err = cache.Get(context.Background(), "0xaaa", rebuildFor("0xaaa"))
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "0xbbb", rebuildFor("0xbbb"))
	require.NoError(t, err)

	assert.Equal(t, 2, rebuilds["0xaaa"])
	assert.Equal(t, 1, rebuilds["0xbbb"])
}

func TestViewCacheFailedRebuildKeepsPreviousView(t *testing.T) {
	cache := NewViewCache(time.Minute)
	good := &View{RoundTrips: []models.RoundTrip{{ID: "rt_1"}}}

	_, err := cache.Get(context.Background(), "0xabc", func(context.Context) (*View, error) {
		return good, nil
	})
	require.NoError(t, err)

	cache.Invalidate("0xabc")

	boom := errors.New("store unavailable")
	_, err = cache.Get(context.Background(), "0xabc", func(context.Context) (*View, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// Next rebuild succeeds and serves fresh data; the failure never left a
	// partial view behind.
	view, err := cache.Get(context.Background(), "0xabc", func(context.Context) (*View, error) {
		return good, nil
	})
	require.NoError(t, err)
	assert.Same(t, good, view)
}
