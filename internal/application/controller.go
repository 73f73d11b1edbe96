package application

import (
	"context"
	"sync"
)

// Mergeable is satisfied by a settings record type that can apply its patch
// type, returning the merged record without mutating the receiver.
type Mergeable[S, P any] interface {
	Merge(P) S
}

// Controller is the per-mount settings facade for one plugin. Every mounted
// view holds its own Controller; all Controllers for a plugin share one
// SettingsService and converge through its change announcements. Racing
// updates between announcement deliveries resolve last-write-wins — there is
// no version vector and no conflict detection, by contract.
type Controller[S Mergeable[S, P], P any] struct {
	svc   *SettingsService[S]
	unsub func()

	mu      sync.RWMutex
	current S
}

// NewController mounts a controller: it loads the current record and
// subscribes to the plugin's announcements so that updates made by any other
// mounted controller (or by itself — self-notification is expected and
// idempotent) refresh the local copy.
func NewController[S Mergeable[S, P], P any](ctx context.Context, svc *SettingsService[S]) *Controller[S, P] {
	c := &Controller[S, P]{svc: svc}
	c.current = svc.Load(ctx)
	c.unsub = svc.Subscribe(c.refresh)
	return c
}

// Current returns the most recently known settings record.
func (c *Controller[S, P]) Current() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Update merges the partial record onto the current one, makes the result
// visible immediately, then writes through the service and announces. The
// operation is fire-and-forget with respect to persistence: the returned
// record is authoritative for the session even if the write silently failed.
func (c *Controller[S, P]) Update(ctx context.Context, patch P) S {
	c.mu.Lock()
	merged := c.current.Merge(patch)
	c.current = merged
	c.mu.Unlock()

	c.svc.Save(ctx, merged)
	return merged
}

// Reset replaces the record with the plugin defaults in full — a whole-record
// replacement, not a partial merge.
func (c *Controller[S, P]) Reset(ctx context.Context) S {
	defaults := c.svc.Defaults()

	c.mu.Lock()
	c.current = defaults
	c.mu.Unlock()

	c.svc.Save(ctx, defaults)
	return defaults
}

// Close unsubscribes the controller from change announcements. The record
// itself is never destroyed; it lives on in the service and store.
func (c *Controller[S, P]) Close() {
	c.unsub()
}

// refresh re-reads authoritative state after an announcement. Announcements
// carry no payload and no ordering guarantee, so the handler re-reads rather
// than diffing; at least one refresh observes the final saved record.
func (c *Controller[S, P]) refresh() {
	rec := c.svc.Load(context.Background())

	c.mu.Lock()
	c.current = rec
	c.mu.Unlock()
}
