package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

// DefaultProteinGoal is the daily goal in grams used when none is configured.
const DefaultProteinGoal = 130

var templateFuncs = template.FuncMap{
	"grams": func(g int) string { return fmt.Sprintf("%dg", g) },
	"avg":   func(f float64) string { return fmt.Sprintf("%.1fg", f) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
	"date":  func(d core.Date) string { return d.String() },
	"barWidth": func(v, max int) int {
		if max <= 0 || v <= 0 {
			return 0
		}
		w := (v*100 + max/2) / max
		if w < 2 {
			w = 2
		}
		return min(w, 100)
	},
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// renderNotes converts Markdown notes to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer.
func (s *Server) renderNotes(notes string) template.HTML {
	if strings.TrimSpace(notes) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(notes), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(notes))
	}
	return template.HTML(buf.String())
}

// render executes a page template into a buffer first so that a failing
// template never leaves a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name,
			log.FieldOperation, log.OpRender)
		http.Error(w, "error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// serverError logs err and answers with a generic 500.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	s.logger.ErrorContext(r.Context(), msg,
		log.FieldError, err,
		log.FieldOperation, op,
		log.FieldPath, r.URL.Path)
	InternalServerError("Something went wrong, please try again.").Write(w)
}

// page carries the fields every page template reads.
type page struct {
	Title  string
	Active string
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
