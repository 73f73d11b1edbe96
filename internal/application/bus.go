// Package application contains use-case orchestration services: the settings
// service and controllers, the change-broadcast bus, the entity snapshot
// service, and the pure derived-view builders.
package application

import "sync"

// Bus is the in-process synchronization bus. Announcements carry no payload
// beyond their topic; subscribers re-read authoritative state from the
// settings service rather than trusting announcement ordering or content.
// The bus has no persistence and no cross-process delivery.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func()
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func())}
}

// Subscribe registers handler for a topic and returns an unsubscribe func.
// Handlers run synchronously on the announcing goroutine, including for
// announcements issued by the subscriber itself, so they must be idempotent.
func (b *Bus) Subscribe(topic string, handler func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func())
	}
	b.subs[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Announce invokes every handler subscribed to the topic. Handlers are
// snapshotted under the lock and invoked outside it, so a handler may
// subscribe, unsubscribe, or announce without deadlocking.
func (b *Bus) Announce(topic string) {
	b.mu.Lock()
	handlers := make([]func(), 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}
