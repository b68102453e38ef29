package journal

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/internal/models"
	"hyperliquid-journal/internal/store"
)

// Venue defines the upstream reads the journal needs. Implemented by the
// venue client; narrowed here so the core can be tested against fakes.
type Venue interface {
	FetchFills(ctx context.Context, wallet string) ([]models.Fill, error)
	FetchFunding(ctx context.Context, wallet string) ([]models.FundingEvent, error)
	FetchPositionSnapshot(ctx context.Context, wallet string) (*models.PositionSnapshot, error)
	DisplayName(ctx context.Context, asset string) string
}

// SyncResult reports what a sync ingested.
type SyncResult struct {
	InsertedFills   int
	InsertedFunding int
	TotalFills      int
}

// Service wires the derivation pipeline together and exposes the journal
// operations: sync, round trips, open positions, assets and notes.
type Service struct {
	store  store.DataStore
	venue  Venue
	cache  *ViewCache
	logger zerolog.Logger

	// Per-wallet sync-in-flight guard. Concurrent syncs of one wallet
	// would race on duplicate-fill ingestion; different wallets proceed
	// independently.
	syncMu  sync.Mutex
	syncing map[string]bool
}

// NewService creates a Service with the given cache TTL.
func NewService(st store.DataStore, v Venue, cacheTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		store:   st,
		venue:   v,
		cache:   NewViewCache(cacheTTL),
		logger:  logger.With().Str("component", "journal").Logger(),
		syncing: make(map[string]bool),
	}
}

// Sync fetches fresh fills and funding for a wallet, persists the new ones
// and invalidates the wallet's cached views. A failed sync leaves
// previously persisted and cached data intact. Returns ErrSyncInProgress
// when a sync for the same wallet is already running.
func (s *Service) Sync(ctx context.Context, wallet string) (*SyncResult, error) {
	if !s.beginSync(wallet) {
		return nil, apperrors.ErrSyncInProgress
	}
	defer s.endSync(wallet)

	fills, err := s.venue.FetchFills(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "sync fills")
	}
	funding, err := s.venue.FetchFunding(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "sync funding")
	}

	insertedFills, err := s.store.SaveFills(ctx, fills)
	if err != nil {
		return nil, apperrors.Wrap(err, "persist fills")
	}
	insertedFunding, err := s.store.SaveFunding(ctx, wallet, funding)
	if err != nil {
		return nil, apperrors.Wrap(err, "persist funding")
	}

	if err := s.store.SetLastSync(wallet, time.Now()); err != nil {
		s.logger.Warn().Err(err).Str("wallet", wallet).Msg("failed to record sync time")
	}

	// The inputs changed; a stale cached view after this point is a
	// correctness bug, not a cosmetic one.
	s.cache.Invalidate(wallet)

	s.logger.Info().
		Str("wallet", wallet).
		Int("new_fills", insertedFills).
		Int("new_funding", insertedFunding).
		Msg("sync complete")

	return &SyncResult{
		InsertedFills:   insertedFills,
		InsertedFunding: insertedFunding,
		TotalFills:      len(fills),
	}, nil
}

// RoundTrips returns the reconstructed round trips for a wallet, newest
// exit first, served from the derived-view cache.
func (s *Service) RoundTrips(ctx context.Context, wallet string) ([]models.RoundTrip, error) {
	view, err := s.view(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return view.RoundTrips, nil
}

// Assets returns the distinct traded assets for a wallet with display
// names, served from the derived-view cache.
func (s *Service) Assets(ctx context.Context, wallet string) ([]models.Asset, error) {
	view, err := s.view(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return view.Assets, nil
}

// View returns the full cached view (round trips and assets) for a wallet.
func (s *Service) View(ctx context.Context, wallet string) (*View, error) {
	return s.view(ctx, wallet)
}

// Positions values the wallet's still-open exposure against a fresh
// snapshot of marks, margin state and trigger orders. Positions are live
// data and bypass the derived-view cache.
func (s *Service) Positions(ctx context.Context, wallet string) ([]models.OpenPosition, error) {
	snap, err := s.venue.FetchPositionSnapshot(ctx, wallet)
	if err != nil {
		return nil, err
	}

	fills, err := s.store.GetFills(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "load fills")
	}

	positions := ValuePositions(fills, snap)
	for i := range positions {
		positions[i].DisplayName = s.venue.DisplayName(ctx, positions[i].Asset)
	}
	return positions, nil
}

// UpdateNotes persists notes for a fill or round trip and invalidates the
// owning wallet's cached views. Round-trip notes are stored on the exit
// fill, so they survive recomputation and re-merge by derived id.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) error {
	fillID := id
	if strings.HasPrefix(id, models.RoundTripIDPrefix) {
		fillID = strings.TrimPrefix(id, models.RoundTripIDPrefix)
	}

	wallet, err := s.store.SetFillNotes(ctx, fillID, notes)
	if err != nil {
		return apperrors.Wrapf(err, "update notes for %s", id)
	}

	s.cache.Invalidate(wallet)
	return nil
}

// Invalidate drops the cached view for a wallet.
func (s *Service) Invalidate(wallet string) {
	s.cache.Invalidate(wallet)
}

// LastSync returns the last successful sync time for a wallet.
func (s *Service) LastSync(wallet string) time.Time {
	return s.store.GetLastSync(wallet)
}

// view serves the cached view, rebuilding on miss or after invalidation.
func (s *Service) view(ctx context.Context, wallet string) (*View, error) {
	return s.cache.Get(ctx, wallet, func(ctx context.Context) (*View, error) {
		return s.rebuild(ctx, wallet)
	})
}

// rebuild recomputes the derived view from the persisted fill history.
// Round trips are pure functions of that history plus stored notes; they
// are rebuilt from scratch, never patched incrementally.
func (s *Service) rebuild(ctx context.Context, wallet string) (*View, error) {
	fills, err := s.store.GetFills(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "load fills")
	}
	funding, err := s.store.GetFunding(ctx, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "load funding")
	}

	result := Reconstruct(fills)
	for _, gap := range result.Gaps {
		s.logger.Warn().Str("wallet", wallet).Stringer("gap", gap).Msg("reconciliation gap")
	}

	ApplyFunding(result.RoundTrips, funding)

	for i := range result.RoundTrips {
		rt := &result.RoundTrips[i]
		rt.DisplayName = s.venue.DisplayName(ctx, rt.Asset)
	}

	// Newest exit first for presentation.
	sort.SliceStable(result.RoundTrips, func(i, j int) bool {
		return result.RoundTrips[i].ExitTime > result.RoundTrips[j].ExitTime
	})

	return &View{
		RoundTrips: result.RoundTrips,
		Assets:     s.assetList(ctx, fills),
	}, nil
}

// assetList collects the distinct assets in a fill history, sorted by id,
// with spot indices resolved to display names.
func (s *Service) assetList(ctx context.Context, fills []models.Fill) []models.Asset {
	seen := make(map[string]bool)
	for _, f := range fills {
		if f.Asset != "" {
			seen[f.Asset] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	assets := make([]models.Asset, 0, len(ids))
	for _, id := range ids {
		assets = append(assets, models.Asset{ID: id, Name: s.venue.DisplayName(ctx, id)})
	}
	return assets
}

// beginSync marks a wallet sync as in flight; false when one already is.
func (s *Service) beginSync(wallet string) bool {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	if s.syncing[wallet] {
		return false
	}
	s.syncing[wallet] = true
	return true
}

func (s *Service) endSync(wallet string) {
	s.syncMu.Lock()
	delete(s.syncing, wallet)
	s.syncMu.Unlock()
}
