package export

import "foodtracker/internal/core"

const (
	ContentTypeCSV  = "text/csv"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// CSVFilename returns the download name of the daily summary, e.g.
// food_tracker_2024-01-31.csv.
func CSVFilename(day core.Date) string {
	return "food_tracker_" + day.String() + ".csv"
}

func PDFFilename(day core.Date) string {
	return "food_tracker_report_" + day.String() + ".pdf"
}

func XLSXFilename(day core.Date) string {
	return "food_tracker_" + day.String() + ".xlsx"
}
