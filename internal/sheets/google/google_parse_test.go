package google

import (
	"testing"

	"foodtracker/internal/core"
)

func TestSummaryValues(t *testing.T) {
	values := summaryValues([]core.DayRow{
		{Date: core.NewDate(2024, 1, 1), Breakfast: "Eggs", Lunch: "Chicken", ProteinIntake: 60},
	})

	if len(values) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(values))
	}
	if values[0][0] != "Date" || values[0][6] != "Protein Intake" {
		t.Fatalf("unexpected header: %v", values[0])
	}
	if values[1][0] != "2024-01-01" || values[1][1] != "Eggs" || values[1][6] != 60 {
		t.Fatalf("unexpected row: %v", values[1])
	}

	if got := summaryValues(nil); len(got) != 1 {
		t.Fatalf("empty summary should still carry the header, got %v", got)
	}
}

func TestParseSummary_RoundTripAndReorderedColumns(t *testing.T) {
	rows := []core.DayRow{
		{Date: core.NewDate(2024, 1, 2), Dinner: "Pasta, Salad", Beverage: "Wine", ProteinIntake: 20},
		{Date: core.NewDate(2024, 1, 1), Breakfast: "Eggs", ProteinIntake: 20},
	}
	got, err := parseSummary(summaryValues(rows))
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(got) != 2 || got[0].Dinner != "Pasta, Salad" || got[1].Date.String() != "2024-01-01" {
		t.Fatalf("unexpected rows: %+v", got)
	}

	// Sheets returns trailing empty cells trimmed and numbers as floats.
	values := [][]interface{}{
		{"Protein Intake", "Date", "Breakfast", "Lunch", "Snacks", "Dinner", "Beverage"},
		{45.0, "2024-02-01", "Oats"},
		{"", ""},
	}
	got, err = parseSummary(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(got) != 1 || got[0].ProteinIntake != 45 || got[0].Breakfast != "Oats" || got[0].Dinner != "" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestParseSummary_Errors(t *testing.T) {
	if _, err := parseSummary([][]interface{}{{"Date", "Food"}}); err == nil {
		t.Fatal("expected header error")
	}

	values := summaryValues(nil)
	values = append(values, []interface{}{"01/02/2024", "", "", "", "", "", 1})
	if _, err := parseSummary(values); err == nil {
		t.Fatal("expected date error")
	}

	if rows, err := parseSummary(nil); err != nil || rows != nil {
		t.Fatalf("empty sheet: rows=%v err=%v", rows, err)
	}
}
