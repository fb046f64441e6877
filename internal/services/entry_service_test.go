package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"foodtracker/internal/amqp"
	"foodtracker/internal/core"
)

type memStore struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]core.FoodEntry
	closed  bool
	failOn  string
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[int64]core.FoodEntry)}
}

var errStore = errors.New("disk full")

func (m *memStore) ListAll(context.Context) ([]core.FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.FoodEntry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id int64) (core.FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return core.FoodEntry{}, core.ErrEntryNotFound
	}
	return e, nil
}

func (m *memStore) Create(_ context.Context, e core.FoodEntry) (core.FoodEntry, error) {
	if m.failOn == "create" {
		return core.FoodEntry{}, errStore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.entries[e.ID] = e
	return e, nil
}

func (m *memStore) Update(_ context.Context, id int64, e core.FoodEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.entries[id]
	if !ok {
		return false, nil
	}
	e.ID, e.CreatedAt = old.ID, old.CreatedAt
	m.entries[id] = e
	return true, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *memStore) ClearAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[int64]core.FoodEntry)
	return nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

type event struct {
	kind amqp.EventKind
	id   int64
}

type recordingPublisher struct {
	events []event
	err    error
	closed bool
}

func (p *recordingPublisher) PublishEntryEvent(_ context.Context, kind amqp.EventKind, id int64) error {
	p.events = append(p.events, event{kind, id})
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func validEntry(food string) core.FoodEntry {
	return core.FoodEntry{
		Date:     core.NewDate(2024, 1, 1),
		Category: core.Breakfast,
		Food:     food,
		Protein:  20,
	}
}

func TestEntryService_CreateEntry(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	service := NewEntryService(store, pub)

	created, err := service.CreateEntry(context.Background(), validEntry("Eggs"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateEntry() should return the assigned ID")
	}
	if len(pub.events) != 1 || pub.events[0] != (event{amqp.EventCreated, created.ID}) {
		t.Errorf("published events = %+v", pub.events)
	}
}

func TestEntryService_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry core.FoodEntry
		want  error
	}{
		{"empty food", validEntry(""), core.ErrEmptyFood},
		{"blank food", validEntry("   "), core.ErrEmptyFood},
		{"bad category", func() core.FoodEntry { e := validEntry("Eggs"); e.Category = "Brunch"; return e }(), core.ErrInvalidCategory},
		{"missing date", func() core.FoodEntry { e := validEntry("Eggs"); e.Date = core.Date{}; return e }(), core.ErrInvalidDate},
		{"negative protein", func() core.FoodEntry { e := validEntry("Eggs"); e.Protein = -1; return e }(), core.ErrNegativeProtein},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			pub := &recordingPublisher{}
			service := NewEntryService(store, pub)

			if _, err := service.CreateEntry(context.Background(), tt.entry); !errors.Is(err, tt.want) {
				t.Errorf("CreateEntry() error = %v, want %v", err, tt.want)
			}
			if _, err := service.UpdateEntry(context.Background(), 1, tt.entry); !errors.Is(err, tt.want) {
				t.Errorf("UpdateEntry() error = %v, want %v", err, tt.want)
			}
			if len(store.entries) != 0 {
				t.Error("invalid entry should not be stored")
			}
			if len(pub.events) != 0 {
				t.Errorf("no events expected, got %+v", pub.events)
			}
		})
	}
}

func TestEntryService_PublishFailureDoesNotFailRequest(t *testing.T) {
	store := newMemStore()
	service := NewEntryService(store, &recordingPublisher{err: errors.New("broker down")})

	if _, err := service.CreateEntry(context.Background(), validEntry("Eggs")); err != nil {
		t.Fatalf("CreateEntry() error = %v, want nil", err)
	}
	if len(store.entries) != 1 {
		t.Errorf("entry should be stored, got %d entries", len(store.entries))
	}
}

func TestEntryService_StoreErrorIsWrapped(t *testing.T) {
	store := newMemStore()
	store.failOn = "create"
	pub := &recordingPublisher{}
	service := NewEntryService(store, pub)

	_, err := service.CreateEntry(context.Background(), validEntry("Eggs"))
	if !errors.Is(err, errStore) {
		t.Fatalf("CreateEntry() error = %v, want wrapped %v", err, errStore)
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published when the store fails")
	}
}

func TestEntryService_MutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	pub := &recordingPublisher{}
	service := NewEntryService(store, pub)

	e, _ := service.CreateEntry(ctx, validEntry("Eggs"))
	updated := validEntry("Scrambled eggs")
	if found, err := service.UpdateEntry(ctx, e.ID, updated); err != nil || !found {
		t.Fatalf("UpdateEntry() = %v, %v", found, err)
	}
	got, err := service.GetEntry(ctx, e.ID)
	if err != nil || got.Food != "Scrambled eggs" {
		t.Errorf("GetEntry() = %+v, %v", got, err)
	}
	if err := service.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if err := service.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	want := []event{
		{amqp.EventCreated, e.ID},
		{amqp.EventUpdated, e.ID},
		{amqp.EventDeleted, e.ID},
		{amqp.EventCleared, 0},
	}
	if len(pub.events) != len(want) {
		t.Fatalf("published %d events, want %d: %+v", len(pub.events), len(want), pub.events)
	}
	for i := range want {
		if pub.events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, pub.events[i], want[i])
		}
	}
}

func TestEntryService_NilPublisher(t *testing.T) {
	service := NewEntryService(newMemStore(), nil)

	if _, err := service.CreateEntry(context.Background(), validEntry("Eggs")); err != nil {
		t.Fatalf("CreateEntry() without publisher error = %v", err)
	}
	if err := service.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll() without publisher error = %v", err)
	}
}

func TestEntryService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		service := &EntryService{}

		if err := service.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})

	t.Run("closes store and publisher", func(t *testing.T) {
		store := newMemStore()
		pub := &recordingPublisher{}
		service := NewEntryService(store, pub)

		if err := service.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !store.closed || !pub.closed {
			t.Errorf("store closed = %v, publisher closed = %v", store.closed, pub.closed)
		}
	})
}

func TestEntryService_UpdateUnknownIDPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	service := NewEntryService(newMemStore(), pub)

	found, err := service.UpdateEntry(context.Background(), 404, validEntry("Ghost"))
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if found {
		t.Error("UpdateEntry() reported an unknown id as found")
	}
	if len(pub.events) != 0 {
		t.Errorf("published %+v for an unknown id", pub.events)
	}
}
