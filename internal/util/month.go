package util

import (
	"fmt"
	"time"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthRange returns the half-open window [start, end) covering a
// month: the first day of the month and the first day of the next, both
// at midnight UTC. Dates are stored truncated to midnight, so the
// window must stay open-ended to include the last calendar day.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, end
}

// FormatYearMonth renders a year/month pair as "YYYY-MM"
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
