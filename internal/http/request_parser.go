// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"foodtracker/internal/core"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds entry form bodies.
const maxBodyBytes = 64 << 10

// EntryForm holds the raw values of the add/edit form so they can be shown
// again when validation fails.
type EntryForm struct {
	Date     string
	Category string
	Food     string
	Beverage string
	Protein  string
	Notes    string
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range []string{"date", "category", "food", "protein"} {
		if msg, ok := fe[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// ReadEntryForm pulls the entry fields out of a parsed body.
func ReadEntryForm(p *RequestBodyParser) EntryForm {
	return EntryForm{
		Date:     p.Get("date"),
		Category: p.Get("category"),
		Food:     p.Get("food"),
		Beverage: p.Get("beverage"),
		Protein:  p.Get("protein"),
		Notes:    p.GetMultiline("notes"),
	}
}

// Entry validates the form and converts it to a core.FoodEntry. An empty
// date means today. On failure the returned error is a FieldErrors.
func (f EntryForm) Entry(today core.Date) (core.FoodEntry, error) {
	errs := FieldErrors{}
	e := core.FoodEntry{
		Date:     today,
		Food:     f.Food,
		Beverage: f.Beverage,
		Notes:    f.Notes,
	}

	if f.Date != "" {
		d, err := core.ParseDate(f.Date)
		if err != nil {
			errs["date"] = "Use the YYYY-MM-DD format."
		}
		e.Date = d
	}

	c, err := core.ParseCategory(f.Category)
	if err != nil {
		errs["category"] = "Pick Breakfast, Lunch, Snacks or Dinner."
	}
	e.Category = c

	if strings.TrimSpace(f.Food) == "" {
		errs["food"] = "Please fill in at least the food field!"
	}

	g, err := core.ParseGrams(f.Protein)
	switch {
	case errors.Is(err, core.ErrNegativeProtein):
		errs["protein"] = "Protein cannot be negative."
	case err != nil:
		errs["protein"] = "Enter protein in grams, e.g. 25 or 12.5."
	}
	e.Protein = g

	if len(errs) > 0 {
		return core.FoodEntry{}, errs
	}
	return e, nil
}

// FormFromEntry fills the form with an existing entry for editing.
func FormFromEntry(e core.FoodEntry) EntryForm {
	return EntryForm{
		Date:     e.Date.String(),
		Category: string(e.Category),
		Food:     e.Food,
		Beverage: e.Beverage,
		Protein:  strconv.Itoa(e.Protein),
		Notes:    e.Notes,
	}
}

// parseEntryID reads the {id} URL parameter.
func parseEntryID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", raw)
	}
	return id, nil
}

// parseGoal reads ?goal=N, falling back to def for missing or invalid values.
func parseGoal(query url.Values, def int) int {
	v := strings.TrimSpace(query.Get("goal"))
	if v == "" {
		return def
	}
	g, err := strconv.Atoi(v)
	if err != nil || g <= 0 || g > 1000 {
		return def
	}
	return g
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.IsJSONContent() || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a single-line string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	return strings.Join(strings.Fields(p.GetMultiline(key)), " ")
}

// GetMultiline returns a sanitized value keeping its line breaks.
func (p *RequestBodyParser) GetMultiline(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// ContentType returns the Content-Type header value.
func (p *RequestBodyParser) ContentType() string {
	return p.contentType
}

// IsJSONContent reports whether the Content-Type announces JSON.
func (p *RequestBodyParser) IsJSONContent() bool {
	return strings.HasPrefix(strings.ToLower(p.contentType), "application/json")
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
