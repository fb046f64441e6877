package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodtracker/internal/amqp"
	"foodtracker/internal/cache"
	"foodtracker/internal/core"
	"foodtracker/internal/sheets"
)

const (
	DefaultSeenSize = 1024
	DefaultSeenTTL  = time.Hour
)

// EntryLister is the read side of the entry store.
type EntryLister interface {
	ListAll(ctx context.Context) ([]core.FoodEntry, error)
}

// MirrorWorker keeps an external copy of the daily summary in step with the
// entry store. Every event triggers a full rebuild, so ordering and lost
// events do not matter.
type MirrorWorker struct {
	store  EntryLister
	mirror sheets.SummaryWriter
	seen   *cache.LRUCache[struct{}]

	mu sync.Mutex
}

// NewMirrorWorker builds a worker. A nil seen cache gets a default one.
func NewMirrorWorker(store EntryLister, mirror sheets.SummaryWriter, seen *cache.LRUCache[struct{}]) *MirrorWorker {
	if seen == nil {
		seen = cache.NewLRUCache[struct{}](DefaultSeenSize, DefaultSeenTTL)
	}
	return &MirrorWorker{
		store:  store,
		mirror: mirror,
		seen:   seen,
	}
}

// HandleEntryEvent processes a single entry event from AMQP. Redelivered
// messages are skipped; a failed rebuild forgets the message so the
// requeued copy is processed again.
func (w *MirrorWorker) HandleEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	if msg.MessageID != "" && !w.seen.Add(msg.MessageID, struct{}{}) {
		slog.DebugContext(ctx, "Skipping duplicate entry event",
			"message_id", msg.MessageID,
			"kind", msg.Kind)
		return nil
	}

	slog.InfoContext(ctx, "Processing entry event",
		"kind", msg.Kind,
		"entry_id", msg.EntryID,
		"message_id", msg.MessageID)

	if err := w.Resync(ctx); err != nil {
		if msg.MessageID != "" {
			w.seen.Delete(msg.MessageID)
		}
		return fmt.Errorf("mirror after %s event: %w", msg.Kind, err)
	}
	return nil
}

// Resync rebuilds the daily summary from the store and replaces the mirror.
func (w *MirrorWorker) Resync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	rows := core.DailySummary(entries)
	if err := w.mirror.ReplaceSummary(ctx, rows); err != nil {
		return fmt.Errorf("replace summary: %w", err)
	}

	slog.InfoContext(ctx, "Mirror resynced",
		"entries", len(entries),
		"days", len(rows))
	return nil
}

// StartupSync mirrors the current store once, recovering from events missed
// while the worker was down.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	start := time.Now()
	if err := w.Resync(ctx); err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "duration", time.Since(start))
	return nil
}
