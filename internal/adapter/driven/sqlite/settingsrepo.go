package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo is the SQLite implementation of the SettingsStore port. Each
// plugin's settings record occupies one slot keyed by its deterministic slot
// key; the payload is an opaque JSON document the repo never inspects.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new SettingsRepo backed by the given DB.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves the payload stored under slotKey. Returns (nil, nil) if no
// payload exists — callers apply defaults.
func (r *SettingsRepo) Get(ctx context.Context, slotKey string) ([]byte, error) {
	const query = `
		SELECT payload
		FROM plugin_settings
		WHERE slot_key = ?
	`

	var payload []byte

	err := r.db.Reader.QueryRowContext(ctx, query, slotKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings slot %s: %w", slotKey, err)
	}

	return payload, nil
}

// Set inserts or replaces the payload stored under slotKey.
func (r *SettingsRepo) Set(ctx context.Context, slotKey string, payload []byte) error {
	const query = `
		INSERT INTO plugin_settings (slot_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		slotKey, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set settings slot %s: %w", slotKey, err)
	}

	return nil
}
