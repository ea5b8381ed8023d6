// Package storage persists the ledger and rate table as JSON blobs in a
// SQLite key-value table.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const (
	keyLedger = "ledger"
	keyRates  = "rates"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadLedger returns the persisted ledger, or an empty one when nothing was
// stored yet or the stored blob does not parse. A corrupt backup must never
// take the tracker down.
func (r *SQLiteRepository) LoadLedger(ctx context.Context) (*core.Ledger, error) {
	payload, err := r.load(ctx, keyLedger)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return core.NewLedger(), nil
	}

	var ledger core.Ledger
	if err := json.Unmarshal(payload, &ledger); err != nil {
		slog.WarnContext(ctx, "Stored ledger is unreadable, starting from an empty ledger",
			"error", err)
		return core.NewLedger(), nil
	}
	return &ledger, nil
}

// SaveLedger stores the ledger as a JSON blob.
func (r *SQLiteRepository) SaveLedger(ctx context.Context, l *core.Ledger) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	return r.save(ctx, keyLedger, payload)
}

// LoadRates returns the persisted rate table, falling back to the default
// table when nothing usable is stored.
func (r *SQLiteRepository) LoadRates(ctx context.Context) (core.RateTable, error) {
	payload, err := r.load(ctx, keyRates)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return core.DefaultRates(), nil
	}

	var rates core.RateTable
	if err := json.Unmarshal(payload, &rates); err != nil {
		slog.WarnContext(ctx, "Stored rate table is unreadable, using defaults",
			"error", err)
		return core.DefaultRates(), nil
	}
	if len(rates) == 0 {
		return core.DefaultRates(), nil
	}
	return rates, nil
}

// SaveRates stores the rate table as a JSON blob.
func (r *SQLiteRepository) SaveRates(ctx context.Context, t core.RateTable) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal rates: %w", err)
	}
	return r.save(ctx, keyRates, payload)
}

func (r *SQLiteRepository) load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM app_state WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return payload, nil
}

func (r *SQLiteRepository) save(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_state (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, payload)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
