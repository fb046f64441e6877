package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingResyncer struct {
	calls atomic.Int64
	err   error
}

func (c *countingResyncer) Resync(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestDefaultSyncProcessorConfig(t *testing.T) {
	config := DefaultSyncProcessorConfig()

	if config.PollInterval != 5*time.Minute {
		t.Errorf("expected PollInterval 5m, got %v", config.PollInterval)
	}
}

func TestNewSyncProcessor_ZeroIntervalUsesDefault(t *testing.T) {
	processor := NewSyncProcessor(&countingResyncer{}, SyncProcessorConfig{})

	if processor.config.PollInterval != 5*time.Minute {
		t.Errorf("expected default PollInterval, got %v", processor.config.PollInterval)
	}
	if processor.IsRunning() {
		t.Error("processor should not be running initially")
	}
}

func TestSyncProcessor_RunsPeriodically(t *testing.T) {
	target := &countingResyncer{}
	processor := NewSyncProcessor(target, SyncProcessorConfig{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := processor.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := processor.Start(ctx); err == nil {
		t.Error("expected error when starting already running processor")
	}

	deadline := time.Now().Add(time.Second)
	for target.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("resync ran %d times, want at least 2", target.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := processor.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if processor.IsRunning() {
		t.Error("processor should not be running after Stop")
	}
	if processor.Stats().LastSuccess.IsZero() {
		t.Error("expected a recorded success")
	}
}

func TestSyncProcessor_RecordsFailures(t *testing.T) {
	target := &countingResyncer{err: errors.New("sheet not found")}
	processor := NewSyncProcessor(target, DefaultSyncProcessorConfig())

	processor.RunOnce(context.Background())
	processor.RunOnce(context.Background())

	stats := processor.Stats()
	if stats.Runs != 2 || stats.Failures != 2 {
		t.Errorf("stats = %+v, want 2 runs and 2 failures", stats)
	}
	if stats.LastError != "sheet not found" {
		t.Errorf("LastError = %q", stats.LastError)
	}
}

func TestSyncProcessor_StopNotRunning(t *testing.T) {
	processor := NewSyncProcessor(&countingResyncer{}, DefaultSyncProcessorConfig())

	if err := processor.Stop(context.Background()); err != nil {
		t.Errorf("Stop should not error when not running: %v", err)
	}
}
