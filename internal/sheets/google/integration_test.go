//go:build integration

package google

import (
	"context"
	"os"
	"testing"

	"foodtracker/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_SummaryMirror(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	if os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON") == "" && os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE") == "" &&
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx := context.Background()
	client, err := New(ctx, Options{
		SpreadsheetID:      spreadsheetID,
		SheetName:          os.Getenv("GOOGLE_SHEET_NAME"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	rows := []core.DayRow{
		{Date: core.NewDate(2024, 1, 2), Dinner: "Pasta, Salad", Beverage: "Wine", ProteinIntake: 20},
		{Date: core.NewDate(2024, 1, 1), Breakfast: "Eggs", Lunch: "Chicken", ProteinIntake: 60},
	}
	if err := client.ReplaceSummary(ctx, rows); err != nil {
		t.Fatalf("ReplaceSummary: %v", err)
	}

	got, err := client.ReadSummary(ctx)
	if err != nil {
		t.Fatalf("ReadSummary: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read back %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i].Date.String() != rows[i].Date.String() || got[i].ProteinIntake != rows[i].ProteinIntake {
			t.Errorf("row %d = %+v, want %+v", i, got[i], rows[i])
		}
	}
}
