package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodtracker/internal/amqp"
	"foodtracker/internal/core"
	"foodtracker/internal/sheets/memory"
)

type stubStore struct {
	entries []core.FoodEntry
	err     error
	calls   int
}

func (s *stubStore) ListAll(context.Context) ([]core.FoodEntry, error) {
	s.calls++
	return s.entries, s.err
}

type failingMirror struct{ err error }

func (f failingMirror) ReplaceSummary(context.Context, []core.DayRow) error { return f.err }

func entries() []core.FoodEntry {
	return []core.FoodEntry{
		{ID: 2, Date: core.NewDate(2024, 1, 1), Category: core.Lunch, Food: "Chicken", Protein: 40},
		{ID: 1, Date: core.NewDate(2024, 1, 1), Category: core.Breakfast, Food: "Eggs", Protein: 20},
	}
}

func TestMirrorWorker_Resync(t *testing.T) {
	store := &stubStore{entries: entries()}
	mirror := memory.New()
	w := NewMirrorWorker(store, mirror, nil)

	require.NoError(t, w.Resync(context.Background()))

	rows, err := mirror.ReadSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Eggs", rows[0].Breakfast)
	assert.Equal(t, "Chicken", rows[0].Lunch)
	assert.Equal(t, 60, rows[0].ProteinIntake)
}

func TestMirrorWorker_HandleEntryEventDeduplicates(t *testing.T) {
	store := &stubStore{entries: entries()}
	mirror := memory.New()
	w := NewMirrorWorker(store, mirror, nil)
	ctx := context.Background()

	msg := amqp.NewEntryEventMessage(amqp.EventCreated, 2)
	require.NoError(t, w.HandleEntryEvent(ctx, msg))
	require.NoError(t, w.HandleEntryEvent(ctx, msg))

	assert.Equal(t, 1, mirror.Writes())

	require.NoError(t, w.HandleEntryEvent(ctx, amqp.NewEntryEventMessage(amqp.EventDeleted, 2)))
	assert.Equal(t, 2, mirror.Writes())
}

func TestMirrorWorker_FailedEventCanBeRetried(t *testing.T) {
	store := &stubStore{err: errors.New("database is locked")}
	mirror := memory.New()
	w := NewMirrorWorker(store, mirror, nil)
	ctx := context.Background()

	msg := amqp.NewEntryEventMessage(amqp.EventUpdated, 1)
	err := w.HandleEntryEvent(ctx, msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updated")

	store.err = nil
	store.entries = entries()
	require.NoError(t, w.HandleEntryEvent(ctx, msg))
	assert.Equal(t, 1, mirror.Writes())
	assert.Equal(t, 2, store.calls)
}

func TestMirrorWorker_MirrorError(t *testing.T) {
	w := NewMirrorWorker(&stubStore{entries: entries()}, failingMirror{err: errors.New("quota exceeded")}, nil)

	err := w.StartupSync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestMirrorWorker_ClearedStoreEmptiesMirror(t *testing.T) {
	store := &stubStore{entries: entries()}
	mirror := memory.New()
	w := NewMirrorWorker(store, mirror, nil)
	ctx := context.Background()

	require.NoError(t, w.StartupSync(ctx))
	store.entries = nil
	require.NoError(t, w.HandleEntryEvent(ctx, amqp.NewEntryEventMessage(amqp.EventCleared, 0)))

	rows, _ := mirror.ReadSummary(ctx)
	assert.Empty(t, rows)
}
