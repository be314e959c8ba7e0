package calendar

import "time"

// HolidaySet is a set of holiday dates keyed by yyyy-mm-dd. The key ignores
// time-of-day and timezone offset so a holiday matches whatever wall clock the
// caller's date carries.
type HolidaySet map[string]struct{}

const dayKeyFormat = "2006-01-02"

// NewHolidaySet builds a set from a list of dates.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format(dayKeyFormat)] = struct{}{}
	}
	return set
}

// Add inserts a date into the set.
func (h HolidaySet) Add(d time.Time) {
	h[d.Format(dayKeyFormat)] = struct{}{}
}

// Contains reports whether the date's day is in the set.
func (h HolidaySet) Contains(d time.Time) bool {
	_, ok := h[d.Format(dayKeyFormat)]
	return ok
}

// IsBusinessDay reports whether the date is neither a weekend day nor a listed
// holiday.
func IsBusinessDay(d time.Time, holidays HolidaySet) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(d)
}

// NextBusinessDay returns the date unchanged when it is already a business
// day, otherwise the first business day after it.
func NextBusinessDay(d time.Time, holidays HolidaySet) time.Time {
	for !IsBusinessDay(d, holidays) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddBusinessDays advances the date by n business days, skipping weekends and
// holidays while counting. n <= 0 returns the date unchanged.
func AddBusinessDays(d time.Time, n int, holidays HolidaySet) time.Time {
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		for !IsBusinessDay(d, holidays) {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

// CountHolidaysBetween counts listed holiday dates within [start, end]
// inclusive. A start after end yields zero.
func CountHolidaysBetween(start, end time.Time, holidays HolidaySet) int {
	count := 0
	for d := start; !dayAfter(d, end); d = d.AddDate(0, 0, 1) {
		if holidays.Contains(d) {
			count++
		}
	}
	return count
}

func dayAfter(a, b time.Time) bool {
	return a.Format(dayKeyFormat) > b.Format(dayKeyFormat)
}
