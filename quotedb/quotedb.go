// Package quotedb persists fetched market data in a single-file SQLite
// database, so simulations and the dashboard work without hitting the
// provider on every run.
package quotedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/date"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a ticker has no stored data.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed quote database. Use ":memory:" for a throwaway
// store in tests.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the quote database and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	assetsTable := `
		CREATE TABLE IF NOT EXISTS assets (
			ticker     TEXT NOT NULL PRIMARY KEY,
			name       TEXT NOT NULL,
			exchange   TEXT NOT NULL DEFAULT '',
			currency   TEXT NOT NULL,
			sectors    TEXT,
			fetched_on TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, assetsTable); err != nil {
		return fmt.Errorf("failed to create assets table: %w", err)
	}

	pricesTable := `
		CREATE TABLE IF NOT EXISTS prices (
			ticker TEXT NOT NULL REFERENCES assets(ticker) ON DELETE CASCADE,
			day    TEXT NOT NULL,
			close  REAL NOT NULL,
			PRIMARY KEY (ticker, day)
		)
	`
	if _, err := s.db.ExecContext(ctx, pricesTable); err != nil {
		return fmt.Errorf("failed to create prices table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_prices_ticker ON prices(ticker)"); err != nil {
		return fmt.Errorf("failed to create idx_prices_ticker: %w", err)
	}
	return nil
}

// SaveAsset stores an asset and its full price history, replacing any
// previous data for the ticker. The write is transactional.
func (s *Store) SaveAsset(ctx context.Context, a *foliosim.Asset) (err error) {
	var sectorsJSON []byte
	if a.Sectors != nil {
		sectorsJSON, err = json.Marshal(a.Sectors)
		if err != nil {
			return fmt.Errorf("failed to marshal sectors: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `
		INSERT INTO assets (ticker, name, exchange, currency, sectors, fetched_on)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			name = excluded.name,
			exchange = excluded.exchange,
			currency = excluded.currency,
			sectors = excluded.sectors,
			fetched_on = excluded.fetched_on
	`
	var sectors sql.NullString
	if sectorsJSON != nil {
		sectors = sql.NullString{String: string(sectorsJSON), Valid: true}
	}
	if _, err = tx.ExecContext(ctx, upsert, a.Ticker, a.Name, a.Exchange, a.Currency, sectors, date.Today().String()); err != nil {
		return fmt.Errorf("failed to save asset %q: %w", a.Ticker, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM prices WHERE ticker = ?", a.Ticker); err != nil {
		return fmt.Errorf("failed to clear prices for %q: %w", a.Ticker, err)
	}
	insert, err := tx.PrepareContext(ctx, "INSERT INTO prices (ticker, day, close) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer insert.Close()
	for day, close := range a.Prices.Values() {
		if _, err = insert.ExecContext(ctx, a.Ticker, day.String(), close); err != nil {
			return fmt.Errorf("failed to save price for %q on %s: %w", a.Ticker, day, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// LoadAsset retrieves an asset and its price history. Returns ErrNotFound
// for an unknown ticker.
func (s *Store) LoadAsset(ctx context.Context, ticker string) (*foliosim.Asset, error) {
	a := &foliosim.Asset{Ticker: ticker}
	var sectors sql.NullString
	query := "SELECT name, exchange, currency, sectors FROM assets WHERE ticker = ?"
	err := s.db.QueryRowContext(ctx, query, ticker).Scan(&a.Name, &a.Exchange, &a.Currency, &sectors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %q: %w", ticker, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %q: %w", ticker, err)
	}
	if sectors.Valid {
		if err := json.Unmarshal([]byte(sectors.String), &a.Sectors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sectors for %q: %w", ticker, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT day, close FROM prices WHERE ticker = ? ORDER BY day", ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %q: %w", ticker, err)
	}
	defer rows.Close()
	for rows.Next() {
		var dayStr string
		var close float64
		if err := rows.Scan(&dayStr, &close); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		day, err := date.Parse(dayStr)
		if err != nil {
			return nil, fmt.Errorf("invalid day %q for %q: %w", dayStr, ticker, err)
		}
		a.Prices.Append(day, close)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price rows: %w", err)
	}
	return a, nil
}

// LoadAssets retrieves several assets at once. Any missing ticker makes the
// whole load fail with ErrNotFound.
func (s *Store) LoadAssets(ctx context.Context, tickers []string) ([]*foliosim.Asset, error) {
	assets := make([]*foliosim.Asset, 0, len(tickers))
	for _, ticker := range tickers {
		a, err := s.LoadAsset(ctx, ticker)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// FetchedOn returns the day the ticker's data was last fetched. Returns
// ErrNotFound for an unknown ticker.
func (s *Store) FetchedOn(ctx context.Context, ticker string) (date.Date, error) {
	var dayStr string
	err := s.db.QueryRowContext(ctx, "SELECT fetched_on FROM assets WHERE ticker = ?", ticker).Scan(&dayStr)
	if errors.Is(err, sql.ErrNoRows) {
		return date.Date{}, fmt.Errorf("asset %q: %w", ticker, ErrNotFound)
	}
	if err != nil {
		return date.Date{}, fmt.Errorf("failed to load fetch day for %q: %w", ticker, err)
	}
	return date.Parse(dayStr)
}

// Tickers lists the tickers with stored data, alphabetically.
func (s *Store) Tickers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT ticker FROM assets ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()
	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}

// Delete removes an asset and its prices.
func (s *Store) Delete(ctx context.Context, ticker string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE ticker = ?", ticker); err != nil {
		return fmt.Errorf("failed to delete %q: %w", ticker, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
