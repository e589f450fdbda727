package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyDueDatesSequence(t *testing.T) {
	start := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	dates := MonthlyDueDates(start, end)

	assert.Len(t, dates, 6)
	assert.True(t, dates[0].Equal(start), "first occurrence must be start itself")
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].Equal(dates[i-1].AddDate(0, 1, 0)),
			"occurrence %d must be previous plus one calendar month", i)
		assert.True(t, dates[i].After(dates[i-1]), "sequence must be strictly ascending")
	}
	last := dates[len(dates)-1]
	assert.False(t, last.After(end), "last occurrence must not exceed end")
	assert.True(t, last.AddDate(0, 1, 0).After(end), "next occurrence would exceed end")
}

func TestMonthlyDueDatesKeepsTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.March, 5, 23, 45, 12, 0, time.UTC)
	dates := MonthlyDueDates(start, start.AddDate(0, 3, 0))

	for _, d := range dates {
		assert.Equal(t, 5, d.Day())
		assert.Equal(t, 23, d.Hour())
		assert.Equal(t, 45, d.Minute())
		assert.Equal(t, 12, d.Second())
	}
}

func TestMonthlyDueDatesStartEqualsEnd(t *testing.T) {
	start := date(2024, time.February, 1)
	dates := MonthlyDueDates(start, start)
	assert.Len(t, dates, 1)
	assert.True(t, dates[0].Equal(start))
}

func TestMonthlyDueDatesEmptyCases(t *testing.T) {
	start := date(2024, time.May, 1)

	assert.Empty(t, MonthlyDueDates(time.Time{}, start))
	assert.Empty(t, MonthlyDueDates(start, time.Time{}))
	assert.Empty(t, MonthlyDueDates(start, start.AddDate(0, 0, -1)))
}

func TestMonthlyDueDatesMonthRollover(t *testing.T) {
	// Jan 31 has no counterpart in February; AddDate rolls it into March.
	// Anchoring on start keeps later months on the 31st where it exists.
	start := date(2024, time.January, 31)
	dates := MonthlyDueDates(start, date(2024, time.May, 31))

	assert.True(t, dates[0].Equal(date(2024, time.January, 31)))
	assert.True(t, dates[1].Equal(date(2024, time.March, 2)), "Feb 31 normalizes to Mar 2 in a leap year")
	assert.True(t, dates[2].Equal(date(2024, time.March, 31)))
}

func TestMonthlyDueDatesYearBoundary(t *testing.T) {
	start := date(2023, time.November, 10)
	dates := MonthlyDueDates(start, date(2024, time.February, 10))

	assert.Len(t, dates, 4)
	assert.Equal(t, time.January, dates[2].Month())
	assert.Equal(t, 2024, dates[2].Year())
}

func TestNextMonthly(t *testing.T) {
	assert.True(t, NextMonthly(date(2024, time.April, 7)).Equal(date(2024, time.May, 7)))
	assert.True(t, NextMonthly(time.Time{}).IsZero())
}

func TestIsOverdue(t *testing.T) {
	due := date(2024, time.March, 1)
	now := date(2024, time.March, 10)

	assert.True(t, IsOverdue(due, nil, now), "unsettled past due date")
	assert.False(t, IsOverdue(due, nil, date(2024, time.February, 20)), "unsettled before due date")

	late := date(2024, time.March, 5)
	assert.True(t, IsOverdue(due, &late, now), "settled after due date")

	onTime := date(2024, time.March, 1)
	assert.False(t, IsOverdue(due, &onTime, now), "settled on due date")

	assert.False(t, IsOverdue(time.Time{}, nil, now), "zero due date is never overdue")
}
