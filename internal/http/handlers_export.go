package http

import (
	"bytes"
	"net/http"
	"strconv"
	"sync/atomic"

	"foodtracker/internal/core"
	"foodtracker/internal/export"
	"foodtracker/internal/log"
)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.exportEntries(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, core.DailySummary(entries)); err != nil {
		s.serverError(w, r, "CSV export failed", err, log.OpExport)
		return
	}
	s.sendDownload(w, r, export.ContentTypeCSV, export.CSVFilename(s.today()), &buf)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.exportEntries(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, entries, s.now()); err != nil {
		s.serverError(w, r, "PDF export failed", err, log.OpExport)
		return
	}
	s.sendDownload(w, r, export.ContentTypePDF, export.PDFFilename(s.today()), &buf)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.exportEntries(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, core.DailySummary(entries), entries); err != nil {
		s.serverError(w, r, "XLSX export failed", err, log.OpExport)
		return
	}
	s.sendDownload(w, r, export.ContentTypeXLSX, export.XLSXFilename(s.today()), &buf)
}

func (s *Server) exportEntries(w http.ResponseWriter, r *http.Request) ([]core.FoodEntry, bool) {
	entries, err := s.entries.ListEntries(r.Context())
	if err != nil {
		s.serverError(w, r, "Failed to list entries for export", err, log.OpList)
		return nil, false
	}
	return entries, true
}

// sendDownload writes a fully built report so a failing exporter never
// produces a truncated file.
func (s *Server) sendDownload(w http.ResponseWriter, r *http.Request, contentType, filename string, body *bytes.Buffer) {
	atomic.AddInt64(&s.appMetrics.exports, 1)
	s.logger.InfoContext(r.Context(), "Report exported",
		log.FieldOperation, log.OpExport,
		"filename", filename,
		"bytes", body.Len())

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	h.Set("Content-Length", strconv.Itoa(body.Len()))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}
