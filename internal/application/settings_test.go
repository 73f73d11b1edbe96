package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/paneldock/internal/application"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// --- Mock implementations ---

// mockSettingsStore is an in-memory SettingsStore with fault injection.
type mockSettingsStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{data: make(map[string][]byte)}
}

func (m *mockSettingsStore) Get(_ context.Context, slotKey string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[slotKey], nil
}

func (m *mockSettingsStore) Set(_ context.Context, slotKey string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[slotKey] = payload
	return nil
}

func (m *mockSettingsStore) put(slotKey string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[slotKey] = payload
}

func newSlackService(store *mockSettingsStore, bus *application.Bus) *application.SettingsService[model.SlackSettings] {
	return application.NewSettingsService(store, bus, model.PluginSlack, model.DefaultSlackSettings)
}

// --- Tests ---

func TestSettingsService_LoadEmptyStoreYieldsDefaults(t *testing.T) {
	svc := newSlackService(newMockSettingsStore(), application.NewBus())

	got := svc.Load(context.Background())

	assert.Equal(t, model.DefaultSlackSettings(), got)
}

func TestSettingsService_RoundTrip(t *testing.T) {
	store := newMockSettingsStore()
	bus := application.NewBus()
	ctx := context.Background()

	saved := model.DefaultSlackSettings()
	saved.ItemLimit = 10
	saved.SortOrder = model.SortAlphabetical
	newSlackService(store, bus).Save(ctx, saved)

	// A fresh service (new session) must read the persisted record back,
	// merged onto defaults.
	got := newSlackService(store, bus).Load(ctx)
	assert.Equal(t, saved, got)
}

func TestSettingsService_PartialPayloadFillsDefaults(t *testing.T) {
	store := newMockSettingsStore()
	// A payload from an older version that predates every other field.
	store.put(model.SlotKey(model.PluginSlack), []byte(`{"itemLimit":5}`))

	got := newSlackService(store, application.NewBus()).Load(context.Background())

	want := model.DefaultSlackSettings()
	want.ItemLimit = 5
	assert.Equal(t, want, got, "fields absent from the payload keep their defaults")
}

func TestSettingsService_CorruptPayloadFallsBackToDefaults(t *testing.T) {
	store := newMockSettingsStore()
	store.put(model.SlotKey(model.PluginSlack), []byte(`{"itemLimit": not-json`))

	got := newSlackService(store, application.NewBus()).Load(context.Background())

	assert.Equal(t, model.DefaultSlackSettings(), got)
}

func TestSettingsService_ReadErrorFallsBackToDefaults(t *testing.T) {
	store := newMockSettingsStore()
	store.getErr = errors.New("storage offline")

	got := newSlackService(store, application.NewBus()).Load(context.Background())

	assert.Equal(t, model.DefaultSlackSettings(), got)
}

func TestSettingsService_WriteFailureIsSwallowedAndAnnounced(t *testing.T) {
	store := newMockSettingsStore()
	store.setErr = errors.New("quota exceeded")
	bus := application.NewBus()
	svc := newSlackService(store, bus)
	ctx := context.Background()

	var announced int
	bus.Subscribe(model.Topic(model.PluginSlack), func() { announced++ })

	saved := model.DefaultSlackSettings()
	saved.ItemLimit = 3
	svc.Save(ctx, saved)

	assert.Equal(t, 1, announced, "change is announced even when persistence fails")
	assert.Equal(t, saved, svc.Load(ctx), "session cache stays authoritative")
	assert.Equal(t, 1, store.setCalls, "failed writes are never retried")
}

func TestSettingsService_SaveAnnouncesOnPluginTopicOnly(t *testing.T) {
	store := newMockSettingsStore()
	bus := application.NewBus()

	var other int
	bus.Subscribe(model.Topic(model.PluginGitHub), func() { other++ })

	newSlackService(store, bus).Save(context.Background(), model.DefaultSlackSettings())

	assert.Equal(t, 0, other)
}

func TestSettingsService_SlotIsScopedPerPlugin(t *testing.T) {
	store := newMockSettingsStore()
	bus := application.NewBus()
	ctx := context.Background()

	slackSvc := newSlackService(store, bus)
	linearSvc := application.NewSettingsService(store, bus, model.PluginLinear, model.DefaultLinearSettings)

	saved := model.DefaultSlackSettings()
	saved.ItemLimit = 1
	slackSvc.Save(ctx, saved)

	require.Equal(t, model.DefaultLinearSettings(), linearSvc.Load(ctx))
}
