// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Fills table: one executed trade leg per row. Notes is the only
	-- user-mutable column.
	CREATE TABLE IF NOT EXISTS fills (
		id TEXT PRIMARY KEY,
		wallet TEXT NOT NULL,
		asset TEXT NOT NULL,
		market_kind TEXT NOT NULL,
		direction TEXT NOT NULL,
		action TEXT NOT NULL,
		price REAL NOT NULL,
		size REAL NOT NULL,
		pnl REAL NOT NULL DEFAULT 0,
		fee REAL NOT NULL DEFAULT 0,
		timestamp INTEGER NOT NULL,
		hash TEXT,
		order_id INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_fills_wallet_time ON fills(wallet, timestamp);

	-- Funding ledger entries
	CREATE TABLE IF NOT EXISTS funding_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		wallet TEXT NOT NULL,
		asset TEXT NOT NULL,
		amount REAL NOT NULL,
		timestamp INTEGER NOT NULL,
		hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(wallet, asset, timestamp)
	);
	CREATE INDEX IF NOT EXISTS idx_funding_wallet_asset ON funding_events(wallet, asset, timestamp);

	-- Sync bookkeeping
	CREATE TABLE IF NOT EXISTS sync_times (
		wallet TEXT PRIMARY KEY,
		synced_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveFills inserts new fills, skipping ids that already exist so that
// stored notes survive a resync. Returns the number of newly inserted rows.
func (s *SQLiteStore) SaveFills(ctx context.Context, fills []models.Fill) (int, error) {
	if len(fills) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fills
		(id, wallet, asset, market_kind, direction, action, price, size, pnl, fee, timestamp, hash, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return 0, apperrors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	inserted := 0
	for _, f := range fills {
		res, err := stmt.ExecContext(ctx,
			f.ID, f.Wallet, f.Asset, string(f.MarketKind), string(f.Direction), string(f.Action),
			f.Price, f.Size, f.PnL, f.Fee, f.Timestamp, f.Hash, f.OrderID,
		)
		if err != nil {
			return 0, apperrors.Wrapf(err, "insert fill %s", f.ID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Wrap(err, "commit fills")
	}
	return inserted, nil
}

// GetFills returns all fills for a wallet ordered by timestamp ascending,
// ties broken by fill id.
func (s *SQLiteStore) GetFills(ctx context.Context, wallet string) ([]models.Fill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, wallet, asset, market_kind, direction, action, price, size, pnl, fee, timestamp, hash, order_id, notes
		FROM fills
		WHERE wallet = ?
		ORDER BY timestamp ASC, CAST(id AS INTEGER) ASC`, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "query fills")
	}
	defer rows.Close()

	var fills []models.Fill
	for rows.Next() {
		var f models.Fill
		var kind, direction, action string
		var hash, notes sql.NullString
		var orderID sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Wallet, &f.Asset, &kind, &direction, &action,
			&f.Price, &f.Size, &f.PnL, &f.Fee, &f.Timestamp, &hash, &orderID, &notes); err != nil {
			return nil, apperrors.Wrap(err, "scan fill")
		}
		f.MarketKind = models.MarketKind(kind)
		f.Direction = models.Direction(direction)
		f.Action = models.Action(action)
		f.Hash = hash.String
		f.OrderID = orderID.Int64
		f.Notes = notes.String
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

// GetFillNotes returns the notes attached to a fill.
func (s *SQLiteStore) GetFillNotes(ctx context.Context, fillID string) (string, error) {
	var notes string
	err := s.db.QueryRowContext(ctx, `SELECT notes FROM fills WHERE id = ?`, fillID).Scan(&notes)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", apperrors.Wrap(err, "query notes")
	}
	return notes, nil
}

// SetFillNotes updates the notes on a fill and returns the owning wallet so
// the caller can invalidate its cached views.
func (s *SQLiteStore) SetFillNotes(ctx context.Context, fillID, notes string) (string, error) {
	var wallet string
	err := s.db.QueryRowContext(ctx, `SELECT wallet FROM fills WHERE id = ?`, fillID).Scan(&wallet)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", apperrors.Wrap(err, "lookup fill")
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE fills SET notes = ? WHERE id = ?`, notes, fillID); err != nil {
		return "", apperrors.Wrapf(err, "update notes for fill %s", fillID)
	}
	return wallet, nil
}

// SaveFunding inserts funding events, skipping duplicates. Returns the
// number of newly inserted rows.
func (s *SQLiteStore) SaveFunding(ctx context.Context, wallet string, events []models.FundingEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO funding_events (wallet, asset, amount, timestamp, hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(wallet, asset, timestamp) DO NOTHING`)
	if err != nil {
		return 0, apperrors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		res, err := stmt.ExecContext(ctx, wallet, e.Asset, e.Amount, e.Timestamp, e.Hash)
		if err != nil {
			return 0, apperrors.Wrapf(err, "insert funding %s@%d", e.Asset, e.Timestamp)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Wrap(err, "commit funding")
	}
	return inserted, nil
}

// GetFunding returns all funding events for a wallet ordered by timestamp.
func (s *SQLiteStore) GetFunding(ctx context.Context, wallet string) ([]models.FundingEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset, amount, timestamp, hash
		FROM funding_events
		WHERE wallet = ?
		ORDER BY timestamp ASC`, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, "query funding")
	}
	defer rows.Close()

	var events []models.FundingEvent
	for rows.Next() {
		var e models.FundingEvent
		var hash sql.NullString
		if err := rows.Scan(&e.Asset, &e.Amount, &e.Timestamp, &hash); err != nil {
			return nil, apperrors.Wrap(err, "scan funding event")
		}
		e.Hash = hash.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetLastSync returns the last successful sync time for a wallet.
func (s *SQLiteStore) GetLastSync(wallet string) time.Time {
	s.mu.RLock()
	if t, ok := s.syncTimes[wallet]; ok {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()

	var t time.Time
	err := s.db.QueryRow(`SELECT synced_at FROM sync_times WHERE wallet = ?`, wallet).Scan(&t)
	if err != nil {
		return time.Time{}
	}

	s.mu.Lock()
	s.syncTimes[wallet] = t
	s.mu.Unlock()
	return t
}

// SetLastSync records a successful sync for a wallet.
func (s *SQLiteStore) SetLastSync(wallet string, t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_times (wallet, synced_at) VALUES (?, ?)
		ON CONFLICT(wallet) DO UPDATE SET synced_at = excluded.synced_at`, wallet, t)
	if err != nil {
		return apperrors.Wrap(err, "record sync time")
	}

	s.mu.Lock()
	s.syncTimes[wallet] = t
	s.mu.Unlock()
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
