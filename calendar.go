package main

import (
	"fmt"
	"time"
)

// CivilDate is a calendar day with no time of day or zone attached.
// Day-of-month anchors are resolved on this triple so a timezone shift can
// never move a due date by one day.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

const isoDateLayout = "2006-01-02"

func civilDateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

func parseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("date must be in YYYY-MM-DD format: %q", s)
	}
	return civilDateOf(t), nil
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CivilDate) IsZero() bool { return d == CivilDate{} }

func (d CivilDate) Before(o CivilDate) bool { return d.compare(o) < 0 }
func (d CivilDate) After(o CivilDate) bool  { return d.compare(o) > 0 }

func (d CivilDate) compare(o CivilDate) int {
	switch {
	case d.Year != o.Year:
		return d.Year - o.Year
	case d.Month != o.Month:
		return int(d.Month) - int(o.Month)
	default:
		return d.Day - o.Day
	}
}

// DaysUntil returns the whole number of days from d to o (negative when o is earlier).
func (d CivilDate) DaysUntil(o CivilDate) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(o.Year, o.Month, o.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (d CivilDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts an empty string as the zero date.
func (d *CivilDate) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = CivilDate{}
		return nil
	}
	parsed, err := parseCivilDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// daysInMonth reports how many days the given month has, leap years included.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// nextDateFromDayOfMonth resolves a 1-31 day-of-month anchor to the first
// matching calendar date on or after ref, clamping to shorter months. Anchors
// below 1 are treated as 1 so the result is always a real date.
func nextDateFromDayOfMonth(dayOfMonth int, ref CivilDate) CivilDate {
	dayOfMonth = max(dayOfMonth, 1)
	candidate := CivilDate{
		Year:  ref.Year,
		Month: ref.Month,
		Day:   min(dayOfMonth, daysInMonth(ref.Year, ref.Month)),
	}
	if !candidate.Before(ref) {
		return candidate
	}

	year, month := ref.Year, ref.Month+1
	if month > time.December {
		year, month = year+1, time.January
	}
	return CivilDate{
		Year:  year,
		Month: month,
		Day:   min(dayOfMonth, daysInMonth(year, month)),
	}
}

func ResolveNextStatementClose(a Account, ref CivilDate) CivilDate {
	return nextDateFromDayOfMonth(a.StatementCloseDay, ref)
}

func ResolveNextDueDate(a Account, ref CivilDate) CivilDate {
	return nextDateFromDayOfMonth(a.DueDay, ref)
}
