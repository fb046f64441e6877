package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"foodtracker/internal/amqp"
	"foodtracker/internal/core"
)

// EntryStore is the persistence the service orchestrates.
type EntryStore interface {
	ListAll(ctx context.Context) ([]core.FoodEntry, error)
	Get(ctx context.Context, id int64) (core.FoodEntry, error)
	Create(ctx context.Context, e core.FoodEntry) (core.FoodEntry, error)
	Update(ctx context.Context, id int64, e core.FoodEntry) (bool, error)
	Delete(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
	Close() error
}

// EventPublisher announces store mutations, typically over AMQP.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, kind amqp.EventKind, entryID int64) error
	Close() error
}

// EntryService validates entries, writes them to the store and publishes
// change events. A nil publisher disables events.
type EntryService struct {
	store     EntryStore
	publisher EventPublisher
}

func NewEntryService(store EntryStore, publisher EventPublisher) *EntryService {
	return &EntryService{
		store:     store,
		publisher: publisher,
	}
}

func (s *EntryService) ListEntries(ctx context.Context) ([]core.FoodEntry, error) {
	return s.store.ListAll(ctx)
}

func (s *EntryService) GetEntry(ctx context.Context, id int64) (core.FoodEntry, error) {
	return s.store.Get(ctx, id)
}

// CreateEntry validates and stores e, then publishes a created event.
func (s *EntryService) CreateEntry(ctx context.Context, e core.FoodEntry) (core.FoodEntry, error) {
	if err := e.Validate(); err != nil {
		return core.FoodEntry{}, err
	}

	created, err := s.store.Create(ctx, e)
	if err != nil {
		return core.FoodEntry{}, fmt.Errorf("save entry: %w", err)
	}

	s.publish(ctx, amqp.EventCreated, created.ID)
	return created, nil
}

// UpdateEntry validates e and replaces entry id, reporting whether the
// entry existed. Updating an unknown id is not an error and publishes
// nothing.
func (s *EntryService) UpdateEntry(ctx context.Context, id int64, e core.FoodEntry) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}

	found, err := s.store.Update(ctx, id, e)
	if err != nil {
		return false, fmt.Errorf("update entry: %w", err)
	}
	if !found {
		slog.DebugContext(ctx, "Update matched no entry", "entry_id", id)
		return false, nil
	}

	s.publish(ctx, amqp.EventUpdated, id)
	return true, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.publish(ctx, amqp.EventDeleted, id)
	return nil
}

func (s *EntryService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	s.publish(ctx, amqp.EventCleared, 0)
	return nil
}

// publish never fails the caller: the store write already succeeded.
func (s *EntryService) publish(ctx context.Context, kind amqp.EventKind, id int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping entry event", "kind", kind)
		return
	}

	if err := s.publisher.PublishEntryEvent(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"kind", kind, "entry_id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *EntryService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %w", errors.Join(errs...))
	}

	return nil
}
