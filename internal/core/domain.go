package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Breakfast Category = "Breakfast"
	Lunch     Category = "Lunch"
	Snacks    Category = "Snacks"
	Dinner    Category = "Dinner"
)

// DateLayout is the ISO-8601 calendar date format used for storage and exports.
const DateLayout = "2006-01-02"

type (
	// Category is the meal slot an entry belongs to.
	Category string

	Date struct {
		time.Time
	}

	// FoodEntry is one logged meal, beverage and protein record.
	FoodEntry struct {
		ID        int64
		Date      Date
		Category  Category
		Food      string
		Beverage  string
		Protein   int // grams
		Notes     string
		CreatedAt time.Time
	}
)

var (
	ErrEmptyFood       = errors.New("empty food")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNegativeProtein = errors.New("protein cannot be negative")
	ErrEntryNotFound   = errors.New("entry not found")
)

// Categories lists the meal slots in the order they appear on a day.
var Categories = []Category{Breakfast, Lunch, Snacks, Dinner}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	switch c {
	case Breakfast, Lunch, Snacks, Dinner:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date, keeping the wall clock date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// Validate checks the fields the presentation layer is responsible for.
// The store itself accepts any entry.
func (e FoodEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(e.Food) == "" {
		return ErrEmptyFood
	}
	if e.Protein < 0 {
		return ErrNegativeProtein
	}
	return nil
}
