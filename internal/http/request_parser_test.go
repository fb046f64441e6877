package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"foodtracker/internal/core"

	"github.com/go-chi/chi/v5"
)

func TestEntryForm_Entry(t *testing.T) {
	today := core.NewDate(2024, 1, 31)

	tests := []struct {
		name      string
		form      EntryForm
		wantErrs  []string
		wantDate  string
		wantGrams int
		wantCateg core.Category
	}{
		{
			name:      "valid with decimals",
			form:      EntryForm{Date: "2024-01-02", Category: "dinner", Food: "Fish", Protein: "12,5"},
			wantDate:  "2024-01-02",
			wantGrams: 13,
			wantCateg: core.Dinner,
		},
		{
			name:      "empty date and protein default",
			form:      EntryForm{Category: "Snacks", Food: "Apple"},
			wantDate:  "2024-01-31",
			wantGrams: 0,
			wantCateg: core.Snacks,
		},
		{
			name:     "every field wrong",
			form:     EntryForm{Date: "31/01/2024", Category: "Brunch", Food: " ", Protein: "lots"},
			wantErrs: []string{"date", "category", "food", "protein"},
		},
		{
			name:     "negative protein",
			form:     EntryForm{Category: "Lunch", Food: "Soup", Protein: "-1"},
			wantErrs: []string{"protein"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := tt.form.Entry(today)
			if len(tt.wantErrs) > 0 {
				fe, ok := err.(FieldErrors)
				if !ok {
					t.Fatalf("expected FieldErrors, got %v", err)
				}
				if len(fe) != len(tt.wantErrs) {
					t.Errorf("expected %d errors, got %v", len(tt.wantErrs), fe)
				}
				for _, f := range tt.wantErrs {
					if _, ok := fe[f]; !ok {
						t.Errorf("missing error for %s", f)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Date.String() != tt.wantDate {
				t.Errorf("date = %s, want %s", e.Date, tt.wantDate)
			}
			if e.Protein != tt.wantGrams {
				t.Errorf("protein = %d, want %d", e.Protein, tt.wantGrams)
			}
			if e.Category != tt.wantCateg {
				t.Errorf("category = %s, want %s", e.Category, tt.wantCateg)
			}
		})
	}
}

func TestFieldErrors_ErrorIsStable(t *testing.T) {
	fe := FieldErrors{"protein": "bad", "food": "missing"}
	if got := fe.Error(); got != "food: missing; protein: bad" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestFormFromEntryRoundTrip(t *testing.T) {
	e := core.FoodEntry{Date: core.NewDate(2024, 2, 1), Category: core.Lunch, Food: "Rice", Beverage: "Tea", Protein: 9, Notes: "- a\n- b"}
	got, err := FormFromEntry(e).Entry(core.NewDate(2030, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if got.Date.String() != "2024-02-01" || got.Protein != 9 || got.Notes != e.Notes {
		t.Errorf("round trip changed entry: %+v", got)
	}
}

func TestRequestBodyParser(t *testing.T) {
	t.Run("form", func(t *testing.T) {
		body := url.Values{"food": {"  Grilled\x00 chicken  "}, "notes": {"line one\nline two"}}.Encode()
		r := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			t.Fatal(err)
		}
		if p.IsJSON() {
			t.Error("form body reported as JSON")
		}
		if got := p.Get("food"); got != "Grilled chicken" {
			t.Errorf("food = %q", got)
		}
		if got := p.GetMultiline("notes"); got != "line one\nline two" {
			t.Errorf("notes = %q", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"food":"Eggs","protein":12.5,"missing":null}`))
		r.Header.Set("Content-Type", "application/json")

		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			t.Fatal(err)
		}
		if !p.IsJSON() {
			t.Error("expected JSON")
		}
		if p.Get("protein") != "12.5" || p.Get("food") != "Eggs" || p.Get("missing") != "" || p.Get("absent") != "" {
			t.Errorf("unexpected values: %q %q", p.Get("protein"), p.Get("food"))
		}
	})

	t.Run("bad json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"food":`))
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err == nil {
			t.Error("expected error")
		}
		if err := p.Parse(); err == nil {
			t.Error("second Parse should return the same error")
		}
	})
}

func TestParseGoal(t *testing.T) {
	tests := map[string]int{
		"":      130,
		"150":   150,
		"abc":   130,
		"0":     130,
		"-5":    130,
		"99999": 130,
	}
	for in, want := range tests {
		if got := parseGoal(url.Values{"goal": {in}}, 130); got != want {
			t.Errorf("parseGoal(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseEntryID(t *testing.T) {
	withID := func(id string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	if id, err := parseEntryID(withID("42")); err != nil || id != 42 {
		t.Errorf("got %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-1"} {
		if _, err := parseEntryID(withID(bad)); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
