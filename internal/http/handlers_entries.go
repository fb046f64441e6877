package http

import (
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

type entryFormData struct {
	page
	Action     string
	Submit     string
	Form       EntryForm
	Errors     FieldErrors
	Categories []core.Category
}

type entryView struct {
	core.FoodEntry
	NotesHTML template.HTML
}

type entriesData struct {
	page
	Summary []core.DayRow
	Entries []entryView
	Flash   string
}

func (s *Server) newFormData(title, action, submit string, form EntryForm, errs FieldErrors) entryFormData {
	return entryFormData{
		page:       page{Title: title, Active: "new"},
		Action:     action,
		Submit:     submit,
		Form:       form,
		Errors:     errs,
		Categories: core.Categories,
	}
}

// handleNewEntryForm renders the add form with today's date preselected.
func (s *Server) handleNewEntryForm(w http.ResponseWriter, r *http.Request) {
	form := EntryForm{Date: s.today().String(), Category: string(core.Breakfast), Protein: "0"}
	s.render(w, r, http.StatusOK, "entry_form.html",
		s.newFormData("Add Entry", "/entries", "Add Food Entry", form, nil))
}

// handleCreateEntry validates and stores a new entry. Validation failures
// re-render the form with 422.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	form := ReadEntryForm(p)
	entry, err := form.Entry(s.today())
	if err != nil {
		s.validationFailed(w, r, s.newFormData("Add Entry", "/entries", "Add Food Entry", form, asFieldErrors(err)))
		return
	}

	created, err := s.entries.CreateEntry(r.Context(), entry)
	if fe, ok := rejectedEntry(err); ok {
		s.validationFailed(w, r, s.newFormData("Add Entry", "/entries", "Add Food Entry", form, fe))
		return
	}
	if err != nil {
		s.serverError(w, r, "Failed to save food entry", err, log.OpCreate)
		return
	}
	atomic.AddInt64(&s.appMetrics.entriesCreated, 1)
	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogEntryChanged(r.Context(), log.OpCreate, created.ID, created.Date.String(), string(created.Category), created.Protein)

	if isHTMX(r) {
		NewHTMXResponse().
			TriggerEntryCreated(created.ID, created.Date.String()).
			TriggerFormReset().
			TriggerSuccessNotification("Entry added successfully!").
			BodyHTML(`<div class="success">Entry added: ` + template.HTMLEscapeString(created.Food) + `</div>`).
			Write(w)
		return
	}
	Redirect(w, r, "/entries")
}

// handleListEntries shows the daily summary table and every entry.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.ListEntries(r.Context())
	if err != nil {
		s.serverError(w, r, "Failed to list entries", err, log.OpList)
		return
	}

	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{FoodEntry: e, NotesHTML: s.renderNotes(e.Notes)})
	}

	s.render(w, r, http.StatusOK, "entries.html", entriesData{
		page:    page{Title: "View & Manage Entries", Active: "entries"},
		Summary: core.DailySummary(entries),
		Entries: views,
	})
}

// handleEditEntryForm renders the edit form for one entry.
func (s *Server) handleEditEntryForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		NotFoundError("Entry not found").Write(w)
		return
	}

	e, err := s.entries.GetEntry(r.Context(), id)
	if errors.Is(err, core.ErrEntryNotFound) {
		NotFoundError("Entry not found").Write(w)
		return
	}
	if err != nil {
		s.serverError(w, r, "Failed to load entry", err, log.OpRead)
		return
	}

	data := s.newFormData("Edit Entry", "/entries/"+idString(id), "Save Changes", FormFromEntry(e), nil)
	data.Active = "entries"
	s.render(w, r, http.StatusOK, "entry_form.html", data)
}

// handleUpdateEntry replaces an entry's fields. Updating an entry that no
// longer exists is not an error and is neither counted nor logged as a change.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		NotFoundError("Entry not found").Write(w)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	form := ReadEntryForm(p)
	entry, err := form.Entry(s.today())
	if err != nil {
		data := s.newFormData("Edit Entry", "/entries/"+idString(id), "Save Changes", form, asFieldErrors(err))
		data.Active = "entries"
		s.validationFailed(w, r, data)
		return
	}

	found, err := s.entries.UpdateEntry(r.Context(), id, entry)
	if fe, ok := rejectedEntry(err); ok {
		data := s.newFormData("Edit Entry", "/entries/"+idString(id), "Save Changes", form, fe)
		data.Active = "entries"
		s.validationFailed(w, r, data)
		return
	}
	if err != nil {
		s.serverError(w, r, "Failed to update food entry", err, log.OpUpdate)
		return
	}
	if found {
		atomic.AddInt64(&s.appMetrics.entriesUpdated, 1)
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogEntryChanged(r.Context(), log.OpUpdate, id, entry.Date.String(), string(entry.Category), entry.Protein)
	}

	if isHTMX(r) {
		NewHTMXResponse().
			TriggerEntryUpdated(id).
			Header("HX-Redirect", "/entries").
			Write(w)
		return
	}
	Redirect(w, r, "/entries")
}

// handleDeleteEntry removes one entry. Deleting twice is harmless.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		NotFoundError("Entry not found").Write(w)
		return
	}

	if err := s.entries.DeleteEntry(r.Context(), id); err != nil {
		s.serverError(w, r, "Failed to delete food entry", err, log.OpDelete)
		return
	}
	atomic.AddInt64(&s.appMetrics.entriesDeleted, 1)

	if isHTMX(r) {
		NewHTMXResponse().TriggerEntryDeleted(id).Write(w)
		return
	}
	Redirect(w, r, "/entries")
}

// handleClearEntries deletes every entry. The form must carry confirm=yes.
func (s *Server) handleClearEntries(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	if p.Get("confirm") != "yes" {
		UnprocessableEntityError("Confirm clearing all data first.").Write(w)
		return
	}

	if err := s.entries.ClearAll(r.Context()); err != nil {
		s.serverError(w, r, "Failed to clear entries", err, log.OpClear)
		return
	}
	s.logger.WarnContext(r.Context(), "All entries cleared", log.FieldOperation, log.OpClear)

	if isHTMX(r) {
		NewHTMXResponse().TriggerEntriesCleared().Header("HX-Redirect", "/").Write(w)
		return
	}
	Redirect(w, r, "/")
}

func (s *Server) validationFailed(w http.ResponseWriter, r *http.Request, data entryFormData) {
	s.logger.InfoContext(r.Context(), "Entry form rejected",
		log.FieldOperation, log.OpValidate,
		"error_type", log.ErrorTypeValidation,
		log.FieldError, data.Errors.Error())
	s.render(w, r, http.StatusUnprocessableEntity, "entry_form.html", data)
}

// rejectedEntry maps the core validation errors returned by the entry
// service to form field errors. Any other error is not a rejection.
func rejectedEntry(err error) (FieldErrors, bool) {
	switch {
	case err == nil:
		return nil, false
	case errors.Is(err, core.ErrEmptyFood):
		return FieldErrors{"food": "Please fill in at least the food field!"}, true
	case errors.Is(err, core.ErrInvalidCategory):
		return FieldErrors{"category": "Pick Breakfast, Lunch, Snacks or Dinner."}, true
	case errors.Is(err, core.ErrInvalidDate):
		return FieldErrors{"date": "Use the YYYY-MM-DD format."}, true
	case errors.Is(err, core.ErrNegativeProtein):
		return FieldErrors{"protein": "Protein cannot be negative."}, true
	default:
		return nil, false
	}
}

func asFieldErrors(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return FieldErrors{"food": err.Error()}
}
