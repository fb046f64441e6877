package memory

import (
	"context"
	"testing"

	"foodtracker/internal/core"
)

func TestMemoryStoreReplaceAndRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	rows, err := s.ReadSummary(ctx)
	if err != nil || len(rows) != 0 {
		t.Fatalf("unexpected initial summary: rows=%v err=%v", rows, err)
	}

	in := []core.DayRow{
		{Date: core.NewDate(2024, 1, 2), Lunch: "Soup", ProteinIntake: 10},
		{Date: core.NewDate(2024, 1, 1), Breakfast: "Eggs", ProteinIntake: 20},
	}
	if err := s.ReplaceSummary(ctx, in); err != nil {
		t.Fatalf("ReplaceSummary: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	in[0].Lunch = "changed"

	rows, _ = s.ReadSummary(ctx)
	if len(rows) != 2 || rows[0].Lunch != "Soup" || rows[1].ProteinIntake != 20 {
		t.Fatalf("unexpected summary: %+v", rows)
	}

	if err := s.ReplaceSummary(ctx, nil); err != nil {
		t.Fatalf("ReplaceSummary(nil): %v", err)
	}
	rows, _ = s.ReadSummary(ctx)
	if len(rows) != 0 {
		t.Fatalf("expected empty summary after replace with nil, got %+v", rows)
	}
	if s.Writes() != 2 {
		t.Fatalf("writes = %d, want 2", s.Writes())
	}
}
