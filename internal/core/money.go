// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amounts submitted by the forms
// and formatting minor-unit amounts for display.
package core

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxAmount bounds a single amount so period totals cannot overflow int64.
const MaxAmount int64 = 1_000_000_000_000_000

// groupedAmount matches plain digit runs and digit runs grouped by thousands
// with a consistent separator ("1500000", "1.500.000", "1,500,000").
var groupedAmount = regexp.MustCompile(`^(\d+|\d{1,3}(\.\d{3})+|\d{1,3}(,\d{3})+)$`)

// ParseAmount converts a submitted amount string into minor units.
//
// Only integers in [0, MaxAmount] are accepted; signs and fractional parts
// are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("25000")     -> 25000, nil
//	ParseAmount("1.500.000") -> 1500000, nil
//	ParseAmount("-5")        -> 0, ErrInvalidAmount
//	ParseAmount("12.5")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || !groupedAmount.MatchString(s) {
		return 0, ErrInvalidAmount
	}
	digits := strings.NewReplacer(".", "", ",", "").Replace(s)
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || v > MaxAmount {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Format renders the amount with Indonesian digit grouping, e.g. "Rp 1.500.000".
func (m Money) Format(symbol string) string {
	s := humanize.FormatInteger("#.###,", int(m.Units))
	if symbol == "" {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-" + symbol + " " + strings.TrimPrefix(s, "-")
	}
	return symbol + " " + s
}
