package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"foodtracker/internal/core"
)

const (
	SummarySheet = "Daily Summary"
	EntriesSheet = "Entries"
)

var entriesHeader = []string{"ID", "Date", "Category", "Food", "Beverage", "Protein (g)", "Notes", "Created At"}

// WriteXLSX writes a workbook with the daily summary on the first sheet and
// the raw entries on the second.
func WriteXLSX(w io.Writer, rows []core.DayRow, entries []core.FoodEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := setRow(f, SummarySheet, 1, SummaryHeader); err != nil {
		return err
	}
	for i, r := range rows {
		values := []interface{}{
			r.Date.String(), r.Breakfast, r.Lunch, r.Snacks, r.Dinner, r.Beverage, r.ProteinIntake,
		}
		if err := setRow(f, SummarySheet, i+2, values); err != nil {
			return err
		}
	}
	f.SetColWidth(SummarySheet, "A", "A", 12)
	f.SetColWidth(SummarySheet, "B", "F", 30)
	f.SetColWidth(SummarySheet, "G", "G", 14)

	if _, err := f.NewSheet(EntriesSheet); err != nil {
		return fmt.Errorf("create entries sheet: %w", err)
	}
	if err := setRow(f, EntriesSheet, 1, entriesHeader); err != nil {
		return err
	}
	for i, e := range entries {
		values := []interface{}{
			e.ID, e.Date.String(), e.Category.String(), e.Food, e.Beverage, e.Protein, e.Notes,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := setRow(f, EntriesSheet, i+2, values); err != nil {
			return err
		}
	}
	f.SetColWidth(EntriesSheet, "D", "E", 30)
	f.SetColWidth(EntriesSheet, "G", "G", 40)

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
