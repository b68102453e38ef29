// Package scheduler provides periodic background syncing per wallet.
package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "hyperliquid-journal/internal/errors"
)

// SyncFunc triggers one sync for a wallet.
type SyncFunc func(ctx context.Context, wallet string) error

// Scheduler runs one background sync loop per registered wallet. It only
// decides when to call the sync function; overlap protection for a single
// wallet lives in the journal service's sync guard.
type Scheduler struct {
	interval time.Duration
	syncFn   SyncFunc
	logger   zerolog.Logger

	mu   sync.Mutex
	jobs map[string]chan struct{}
	wg   sync.WaitGroup
}

// New creates a Scheduler that syncs each registered wallet every interval.
func New(interval time.Duration, syncFn SyncFunc, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		syncFn:   syncFn,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		jobs:     make(map[string]chan struct{}),
	}
}

// Register starts a background sync loop for a wallet. Returns false if the
// wallet is already registered.
func (s *Scheduler) Register(wallet string) bool {
	wallet = strings.ToLower(wallet)

	s.mu.Lock()
	if _, ok := s.jobs[wallet]; ok {
		s.mu.Unlock()
		return false
	}
	stopCh := make(chan struct{})
	s.jobs[wallet] = stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(wallet, stopCh)

	s.logger.Info().
		Str("wallet", wallet).
		Dur("interval", s.interval).
		Msg("registered wallet for background sync")
	return true
}

// Unregister stops the background sync loop for a wallet. Returns false if
// the wallet was not registered.
func (s *Scheduler) Unregister(wallet string) bool {
	wallet = strings.ToLower(wallet)

	s.mu.Lock()
	stopCh, ok := s.jobs[wallet]
	if ok {
		delete(s.jobs, wallet)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	close(stopCh)
	s.logger.Info().Str("wallet", wallet).Msg("unregistered wallet from background sync")
	return true
}

// Wallets returns the currently registered wallets.
func (s *Scheduler) Wallets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets := make([]string, 0, len(s.jobs))
	for w := range s.jobs {
		wallets = append(wallets, w)
	}
	return wallets
}

// Stop stops all sync loops and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for wallet, stopCh := range s.jobs {
		close(stopCh)
		delete(s.jobs, wallet)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// run is the per-wallet sync loop.
func (s *Scheduler) run(wallet string, stopCh chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			err := s.syncFn(ctx, wallet)
			cancel()

			switch {
			case err == nil:
			case apperrors.Is(err, apperrors.ErrSyncInProgress):
				// A manual sync is running; this tick coalesces into it.
			default:
				s.logger.Warn().Err(err).Str("wallet", wallet).Msg("background sync failed")
			}
		}
	}
}
