// Package period implements the monthly pay cycles used to group
// transactions. A cycle starts on a fixed day of the month (the 25th by
// default) at midnight and ends the day before the same day of the next
// month at 23:59:59.
//
// All arithmetic happens in an explicit fixed-offset location so results
// do not depend on the host timezone.
package period

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"dompetku/internal/core"
)

const (
	DefaultStartDay = 25
	DefaultZoneName = "WITA"
	DefaultOffset   = 8 * 60 * 60

	// TokenLayout is the date-only format used in the period selector.
	TokenLayout = "2006-01-02"
	// LabelLayout is the human-readable format used in selector labels.
	LabelLayout = "02 Jan 2006"
)

// Option is one entry of the period selector.
type Option struct {
	Label     string
	Value     string
	IsCurrent bool
	Start     time.Time
}

// Calculator computes cycle boundaries. The zero value uses the defaults:
// day 25, WITA (UTC+8), no floor.
type Calculator struct {
	StartDay int
	Location *time.Location
	// Floor is the earliest valid period start; zero means unbounded. No
	// enumerated cycle starts before it.
	Floor time.Time
}

// WITA returns the default fixed UTC+8 location.
func WITA() *time.Location {
	return time.FixedZone(DefaultZoneName, DefaultOffset)
}

// New returns a Calculator, rejecting start days that do not exist in every month.
func New(startDay int, loc *time.Location, floor time.Time) (Calculator, error) {
	if startDay < 1 || startDay > 28 {
		return Calculator{}, fmt.Errorf("%w: period start day %d must be between 1 and 28", core.ErrInvalidInput, startDay)
	}
	if loc == nil {
		loc = WITA()
	}
	c := Calculator{StartDay: startDay, Location: loc}
	if !floor.IsZero() {
		c.Floor = c.FirstStartFrom(floor)
	}
	return c, nil
}

// FirstStartFrom returns the earliest cycle start at or after t. A t in the
// middle of a cycle rounds up to the next cycle.
func (c Calculator) FirstStartFrom(t time.Time) time.Time {
	start := c.CurrentStart(t)
	if start.Before(t) {
		start = start.AddDate(0, 1, 0)
	}
	return start
}

// BeforeFloor reports whether a cycle starting at start precedes the floor.
func (c Calculator) BeforeFloor(start time.Time) bool {
	return !c.Floor.IsZero() && start.Before(c.Floor)
}

func (c Calculator) loc() *time.Location {
	if c.Location == nil {
		return WITA()
	}
	return c.Location
}

func (c Calculator) day() int {
	if c.StartDay == 0 {
		return DefaultStartDay
	}
	return c.StartDay
}

// CurrentStart returns the start of the cycle containing now. On or after the
// start day that is this month's start day; before it, the previous month's.
func (c Calculator) CurrentStart(now time.Time) time.Time {
	loc := c.loc()
	y, m, d := now.In(loc).Date()
	if d < c.day() {
		// time.Date normalizes month 0 to December of the previous year.
		m--
	}
	return time.Date(y, m, c.day(), 0, 0, 0, 0, loc)
}

// StartFor returns the start of the cycle containing t. It is used to
// normalize selector tokens that are not themselves cycle starts.
func (c Calculator) StartFor(t time.Time) time.Time {
	return c.CurrentStart(t)
}

// Contains reports whether t falls inside p, bounds included.
func Contains(p core.Period, t time.Time) bool {
	return p.Contains(t)
}

// Range returns the inclusive bounds of the cycle beginning at start: one
// calendar month later minus one day, pinned to 23:59:59.
func (c Calculator) Range(start time.Time) core.Period {
	loc := c.loc()
	start = start.In(loc)
	y, m, d := start.AddDate(0, 1, -1).Date()
	return core.Period{
		Start: start,
		End:   time.Date(y, m, d, 23, 59, 59, 0, loc),
	}
}

// Enumerate yields up to maxCount cycles walking backwards one calendar
// month at a time from the cycle containing now. The first entry is the
// current one. It stops early at the first start before the floor.
func (c Calculator) Enumerate(now time.Time, maxCount int) iter.Seq[Option] {
	first := c.CurrentStart(now)
	return func(yield func(Option) bool) {
		for i := 0; i < maxCount; i++ {
			start := first.AddDate(0, -i, 0)
			if c.BeforeFloor(start) {
				return
			}
			if !yield(c.option(start, i == 0)) {
				return
			}
		}
	}
}

// Options collects Enumerate into a slice.
func (c Calculator) Options(now time.Time, maxCount int) []Option {
	return slices.Collect(c.Enumerate(now, maxCount))
}

// OptionFor describes the cycle containing t as a non-current selector entry.
func (c Calculator) OptionFor(t time.Time) Option {
	return c.option(c.StartFor(t), false)
}

func (c Calculator) option(start time.Time, current bool) Option {
	p := c.Range(start)
	return Option{
		Label:     p.Start.Format(LabelLayout) + " - " + p.End.Format(LabelLayout),
		Value:     p.Start.Format(TokenLayout),
		IsCurrent: current,
		Start:     p.Start,
	}
}

// ParseToken parses a YYYY-MM-DD token as midnight in the calculator's location.
func (c Calculator) ParseToken(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TokenLayout, strings.TrimSpace(s), c.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: period %q: %v", core.ErrInvalidInput, s, err)
	}
	return t, nil
}

// Token formats a period start as a selector value.
func Token(start time.Time) string {
	return start.Format(TokenLayout)
}

// ParseOffset builds a fixed location from an offset such as "+08:00" or "+0800".
func ParseOffset(name, offset string) (*time.Location, error) {
	offset = strings.TrimSpace(offset)
	for _, layout := range []string{"-07:00", "-0700"} {
		if t, err := time.Parse(layout, offset); err == nil {
			_, secs := t.Zone()
			if name == "" {
				name = "UTC" + offset
			}
			return time.FixedZone(name, secs), nil
		}
	}
	return nil, fmt.Errorf("%w: utc offset %q must look like +08:00", core.ErrInvalidInput, offset)
}
