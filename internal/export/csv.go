// Package export renders food entries and daily summaries as downloadable
// documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"foodtracker/internal/core"
)

// SummaryHeader is the column row shared by the CSV and XLSX summaries.
var SummaryHeader = []string{"Date", "Breakfast", "Lunch", "Snacks", "Dinner", "Beverage", "Protein Intake"}

// WriteCSV writes rows with a header line using standard CSV quoting.
func WriteCSV(w io.Writer, rows []core.DayRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(summaryRecord(r)); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the serialized summary.
func CSV(rows []core.DayRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func summaryRecord(r core.DayRow) []string {
	return []string{
		r.Date.String(),
		r.Breakfast,
		r.Lunch,
		r.Snacks,
		r.Dinner,
		r.Beverage,
		strconv.Itoa(r.ProteinIntake),
	}
}
