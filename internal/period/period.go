// Package period implements the two time windows the API queries by:
// rolling summary periods measured backward from now in fixed 30-day
// months, and calendar-month listing ranges.
package period

import (
	"fmt"
	"time"
)

// months maps the accepted period names to their length. A period is a
// fixed 30-day unit, not a calendar month.
var months = map[string]int{
	"1month":   1,
	"3months":  3,
	"6months":  6,
	"12months": 12,
}

// Parse returns the number of 30-day months for a period name. An empty
// value defaults to "1month".
func Parse(period string) (int, error) {
	if period == "" {
		period = "1month"
	}
	n, ok := months[period]
	if !ok {
		return 0, fmt.Errorf("invalid period %q: must be one of 1month, 3months, 6months, 12months", period)
	}
	return n, nil
}

// Window returns the summary window ending at now and starting 30*n days
// earlier. Summary queries treat both bounds as inclusive.
func Window(now time.Time, n int) (start, end time.Time) {
	end = now
	start = end.Add(-time.Duration(n) * 30 * 24 * time.Hour)
	return start, end
}

// MonthRange returns [first of month, first of next month) in UTC for
// listing queries. The upper bound is exclusive.
func MonthRange(year, month int) (start, end time.Time, err error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month/year: %d/%d", month, year)
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end, nil
}
