// file: internals/helpers/month_year.go
package helper

import (
	"fmt"
	"time"
)

// Dues and payments key months as "YYYY-MM" strings, not a Month table.

const monthYearLayout = "2006-01"

// ParseMonthYear validates a "YYYY-MM" key and returns the first day of
// that month (UTC).
func ParseMonthYear(s string) (time.Time, error) {
	t, err := time.Parse(monthYearLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month_year %q, expected YYYY-MM", s)
	}
	return t, nil
}

func FormatMonthYear(t time.Time) string {
	return t.Format(monthYearLayout)
}

// CurrentMonthYear returns the key of the current month.
func CurrentMonthYear(now time.Time) string {
	return FormatMonthYear(now)
}

// AddMonths steps a "YYYY-MM" key forward n months.
func AddMonths(monthYear string, n int) (string, error) {
	t, err := ParseMonthYear(monthYear)
	if err != nil {
		return "", err
	}
	return FormatMonthYear(t.AddDate(0, n, 0)), nil
}

// DueDateFor returns the due date of a billing month: the 10th of the
// following month.
func DueDateFor(monthYear string) (time.Time, error) {
	t, err := ParseMonthYear(monthYear)
	if err != nil {
		return time.Time{}, err
	}
	next := t.AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), 10, 0, 0, 0, 0, time.UTC), nil
}
