// Package schedule holds the pure billing-calendar math: monthly due-date
// sequences and overdue checks. No persistence, no clock reads.
package schedule

import "time"

// MonthlyDueDates generates the ascending monthly occurrences from start
// (inclusive) through end (inclusive), keeping start's day-of-month and
// time-of-day. Occurrences are anchored on start, so a month without
// start's day rolls over per time.AddDate without shifting later months.
//
// Returns an empty slice when either bound is the zero time or start is
// after end.
func MonthlyDueDates(start, end time.Time) []time.Time {
	dates := []time.Time{}
	if start.IsZero() || end.IsZero() || start.After(end) {
		return dates
	}

	for i := 0; ; i++ {
		due := start.AddDate(0, i, 0)
		if due.After(end) {
			break
		}
		dates = append(dates, due)
	}
	return dates
}

// NextMonthly returns the occurrence one calendar month after t.
func NextMonthly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.AddDate(0, 1, 0)
}

// IsOverdue reports whether a payment is late: unsettled past its due
// date, or settled after it. A zero due date is never overdue.
func IsOverdue(due time.Time, paid *time.Time, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	if paid == nil {
		return now.After(due)
	}
	return paid.After(due)
}
