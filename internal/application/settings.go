package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

// SettingsService is the shared per-plugin settings facade. Exactly one
// instance exists per plugin identity; every controller mounted for that
// plugin holds a reference to it. It owns the never-fail read contract
// (missing or corrupt payloads fall back to the full default record) and the
// swallow-on-write-failure contract (the session cache stays authoritative
// even when persistence silently fails).
type SettingsService[S any] struct {
	store    driven.SettingsStore
	bus      *Bus
	plugin   model.PluginID
	defaults func() S
	logger   *slog.Logger

	mu     sync.RWMutex
	cache  S
	cached bool
}

// NewSettingsService creates the shared service for one plugin.
func NewSettingsService[S any](store driven.SettingsStore, bus *Bus, plugin model.PluginID, defaults func() S) *SettingsService[S] {
	return &SettingsService[S]{
		store:    store,
		bus:      bus,
		plugin:   plugin,
		defaults: defaults,
		logger:   slog.Default(),
	}
}

// Plugin returns the plugin identity this service is scoped to.
func (s *SettingsService[S]) Plugin() model.PluginID {
	return s.plugin
}

// Defaults returns a fresh copy of the plugin's default record.
func (s *SettingsService[S]) Defaults() S {
	return s.defaults()
}

// Load returns the current settings record. The session cache wins once a
// record has been read or written this session; otherwise the persisted
// payload is decoded onto a default record so that fields added after the
// payload was written keep their defaults. Missing slots, read errors, and
// corrupt payloads all fall back to the full default record — a settings
// read never fails.
func (s *SettingsService[S]) Load(ctx context.Context) S {
	s.mu.RLock()
	if s.cached {
		rec := s.cache
		s.mu.RUnlock()
		return rec
	}
	s.mu.RUnlock()

	rec := s.readStore(ctx)

	s.mu.Lock()
	if !s.cached {
		s.cache = rec
		s.cached = true
	}
	rec = s.cache
	s.mu.Unlock()

	return rec
}

// Save makes rec the session-authoritative record, persists it, and
// announces the change on the plugin's topic. Persistence failures are
// logged and swallowed; the announcement is made regardless so every mounted
// controller converges on the in-memory record.
func (s *SettingsService[S]) Save(ctx context.Context, rec S) {
	s.mu.Lock()
	s.cache = rec
	s.cached = true
	s.mu.Unlock()

	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("settings not persisted: encode failed", "plugin", s.plugin, "error", err)
	} else if err := s.store.Set(ctx, model.SlotKey(s.plugin), payload); err != nil {
		s.logger.Warn("settings not persisted: write failed", "plugin", s.plugin, "error", err)
	}

	s.bus.Announce(model.Topic(s.plugin))
}

// Subscribe registers handler for this plugin's change announcements and
// returns an unsubscribe func. Announcements for other plugins are never
// delivered.
func (s *SettingsService[S]) Subscribe(handler func()) func() {
	return s.bus.Subscribe(model.Topic(s.plugin), handler)
}

func (s *SettingsService[S]) readStore(ctx context.Context) S {
	payload, err := s.store.Get(ctx, model.SlotKey(s.plugin))
	if err != nil {
		s.logger.Warn("settings read failed, using defaults", "plugin", s.plugin, "error", err)
		return s.defaults()
	}
	if payload == nil {
		return s.defaults()
	}

	rec := s.defaults()
	if err := json.Unmarshal(payload, &rec); err != nil {
		// A corrupt payload discards the whole stored record; there is no
		// per-field recovery.
		s.logger.Warn("settings payload corrupt, using defaults", "plugin", s.plugin, "error", err)
		return s.defaults()
	}
	return rec
}
