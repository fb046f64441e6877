package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"foodtracker/internal/core"
)

// Page geometry in points, measured from the top-left corner of a US Letter page.
const (
	pageHeight     = 792.0
	bottomMargin   = 100.0
	titleX         = 100.0
	titleY         = 100.0
	generatedY     = 130.0
	firstHeaderY   = 170.0
	nextHeaderY    = 100.0
	headerToRow    = 20.0
	rowHeight      = 15.0
	maxFoodLen     = 30
	maxBeverageLen = 20
)

var (
	reportColumns = []float64{50, 120, 220, 350, 450}
	reportHeader  = []string{"Date", "Category", "Food", "Beverage", "Protein (g)"}
)

// WritePDF renders entries, in the given order, as a paginated table.
func WritePDF(w io.Writer, entries []core.FoodEntry, generatedAt time.Time) error {
	doc := newReport(entries, generatedAt)
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func PDF(entries []core.FoodEntry, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, entries, generatedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newReport(entries []core.FoodEntry, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle("Food Tracker Report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(titleX, titleY, "Food Tracker Report")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(titleX, generatedY, "Generated on: "+generatedAt.Format("2006-01-02 15:04"))

	drawHeader(pdf, firstHeaderY)
	y := firstHeaderY + headerToRow

	for _, e := range entries {
		if y > pageHeight-bottomMargin {
			pdf.AddPage()
			drawHeader(pdf, nextHeaderY)
			y = nextHeaderY + headerToRow
		}

		cells := []string{
			e.Date.String(),
			e.Category.String(),
			truncate(e.Food, maxFoodLen),
			truncate(e.Beverage, maxBeverageLen),
			strconv.Itoa(e.Protein),
		}
		pdf.SetFont("Helvetica", "", 9)
		for i, c := range cells {
			pdf.Text(reportColumns[i], y, tr(c))
		}
		y += rowHeight
	}
	return pdf
}

func drawHeader(pdf *fpdf.Fpdf, y float64) {
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range reportHeader {
		pdf.Text(reportColumns[i], y, h)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
