package driven

import "context"

// SettingsStore defines the driven port for slot-keyed settings persistence.
// Get returns (nil, nil) if no payload exists for the slot — callers apply
// defaults when nil is returned. Payloads are opaque JSON documents; the
// store never inspects them.
type SettingsStore interface {
	Get(ctx context.Context, slotKey string) ([]byte, error)
	Set(ctx context.Context, slotKey string, payload []byte) error
}
