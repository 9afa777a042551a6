// Package schedule owns a promotion's display window: deriving its runtime
// display status from the clock, validating schedules supplied with
// moderation actions, and ordering approved promotions for presentation.
//
// Status is a pure projection of (now, start, end) and is never persisted.
// All comparisons are date-only: time-of-day is stripped before comparing,
// so a promotion starting today is active, not upcoming. Days are resolved
// against the UTC calendar.
package schedule

import (
	"time"

	"careconnect/internal/models"
)

// DeriveStatus projects a display status from the clock and a stored window.
// Either date missing yields DisplayNoSchedule; both boundary days are
// inclusive.
func DeriveStatus(now time.Time, start, end *time.Time) string {
	if start == nil || end == nil {
		return models.DisplayNoSchedule
	}

	day := dateOnly(now)
	switch {
	case day.Before(dateOnly(*start)):
		return models.DisplayUpcoming
	case day.After(dateOnly(*end)):
		return models.DisplayExpired
	default:
		return models.DisplayActive
	}
}

// DaysRemaining returns the number of calendar days from now until the end
// date, counting the end day itself when it is in the future. Returns nil if
// the end date is missing; never panics.
func DaysRemaining(now time.Time, end *time.Time) *int {
	if end == nil {
		return nil
	}
	days := int(dateOnly(*end).Sub(dateOnly(now)).Hours() / 24)
	return &days
}

// DurationDays returns the inclusive length of the window in days, counting
// both endpoint days. Returns nil if either date is missing or the window is
// inverted.
func DurationDays(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	s := dateOnly(*start)
	e := dateOnly(*end)
	if e.Before(s) {
		return nil
	}
	days := int(e.Sub(s).Hours()/24) + 1
	return &days
}

// dateOnly truncates a timestamp to its UTC calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
