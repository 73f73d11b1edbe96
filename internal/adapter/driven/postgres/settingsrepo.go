// Package postgres is an alternative driven adapter for settings
// persistence, selected when the configured DSN carries a postgres scheme.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/lib/pq"

	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

const settingsTable = "plugin_settings"

// SettingsRepo is the PostgreSQL implementation of the SettingsStore port.
// The connection and schema are initialized lazily on first use so that the
// composition root can construct the repo without a reachable database.
type SettingsRepo struct {
	dsn string

	initOnce sync.Once
	initErr  error
	db       *sql.DB
}

// NewSettingsRepo creates a SettingsRepo for the given DSN. The DSN is not
// dialed until the first Get or Set.
func NewSettingsRepo(dsn string) *SettingsRepo {
	return &SettingsRepo{dsn: dsn}
}

// Get retrieves the payload stored under slotKey. Returns (nil, nil) if no
// payload exists — callers apply defaults.
func (r *SettingsRepo) Get(ctx context.Context, slotKey string) ([]byte, error) {
	if err := r.ensureReady(ctx); err != nil {
		return nil, err
	}

	const query = `SELECT payload FROM plugin_settings WHERE slot_key = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, slotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings slot %s: %w", slotKey, err)
	}

	return payload, nil
}

// Set inserts or replaces the payload stored under slotKey.
func (r *SettingsRepo) Set(ctx context.Context, slotKey string, payload []byte) error {
	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	const query = `
		INSERT INTO plugin_settings (slot_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, slotKey, string(payload)); err != nil {
		return fmt.Errorf("set settings slot %s: %w", slotKey, err)
	}

	return nil
}

// Close closes the underlying connection pool if it was ever opened.
func (r *SettingsRepo) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ensureReady opens the pool and creates the settings table exactly once.
// A failed initialization is sticky; every subsequent call returns the same
// error, which the settings service treats as a read/write failure and
// recovers from with defaults.
func (r *SettingsRepo) ensureReady(ctx context.Context) error {
	r.initOnce.Do(func() {
		db, err := sql.Open("postgres", r.dsn)
		if err != nil {
			r.initErr = fmt.Errorf("open postgres: %w", err)
			return
		}

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			r.initErr = fmt.Errorf("ping postgres: %w", err)
			return
		}

		ddl := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				slot_key   TEXT PRIMARY KEY,
				payload    TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, settingsTable)
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			_ = db.Close()
			r.initErr = fmt.Errorf("create settings table: %w", err)
			return
		}

		r.db = db
	})

	return r.initErr
}
