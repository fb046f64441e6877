// Package core provides the food entry domain types and the aggregations
// that turn raw entries into dashboard, analytics and export views.
//
// This file contains parsing helpers for user-entered protein amounts.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseGrams converts a user-entered protein amount to whole grams.
//
// An empty string means 0. Decimal input is accepted with either a dot or a
// comma separator and rounded half-up to the nearest gram. Negative values
// return ErrNegativeProtein.
//
// Examples:
//
//	ParseGrams("25")   -> 25, nil
//	ParseGrams("12.5") -> 13, nil
//	ParseGrams("7,4")  -> 7, nil
//	ParseGrams("")     -> 0, nil
func ParseGrams(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeProtein
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 || parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return 0, strconv.ErrSyntax
	}

	for _, p := range parts {
		if !isDigits(p) {
			return 0, strconv.ErrSyntax
		}
	}

	whole := 0
	if parts[0] != "" {
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, err
		}
		whole = n
	}
	if len(parts) == 2 && parts[1] != "" && parts[1][0] >= '5' {
		if whole == math.MaxInt {
			return 0, strconv.ErrRange
		}
		whole++
	}
	return whole, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
