// Package projection expands recurring subscription rules into concrete due dates.
//
// Expansion is pure: the same anchor, step and horizon always produce the same
// sequence, so callers may re-project at any time without drift.
package projection

import "time"

// Expand returns the ordered due dates of a recurring rule.
//
// Starting at the anchor date, one period of stepMonths is added per
// occurrence until the computed date exceeds the horizon. When the anchor's
// day-of-month does not exist in a target month (anchor on the 31st, target
// month has 30 days) the date clamps to the last day of that month. The
// anchor day is re-applied on every step, so a clamped February does not
// shorten the following months.
//
// A horizon before the anchor yields an empty slice.
func Expand(anchor time.Time, stepMonths int, horizon time.Time) []time.Time {
	if stepMonths <= 0 {
		return nil
	}

	anchor = truncateToDate(anchor)
	horizon = truncateToDate(horizon)
	if horizon.Before(anchor) {
		return nil
	}

	var dates []time.Time
	for i := 0; ; i++ {
		due := AddMonthsClamped(anchor, i*stepMonths)
		if due.After(horizon) {
			break
		}
		dates = append(dates, due)
	}
	return dates
}

// AddMonthsClamped adds months to a date, clamping the day-of-month to the
// last valid day of the target month. Unlike time.AddDate it never rolls over
// into the next month (Jan 31 + 1 month is Feb 28/29, not Mar 2/3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())

	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
