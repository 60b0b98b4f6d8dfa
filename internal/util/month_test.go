package util

import (
	"testing"
	"time"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	// January -> December of previous year
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{2026, 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{2026, 2, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{2024, 2, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, // leap year
		{2026, 12, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		gotStart, gotEnd := MonthRange(tt.year, tt.month)
		if !gotStart.Equal(tt.wantStart) || !gotEnd.Equal(tt.wantEnd) {
			t.Errorf("MonthRange(%d, %d) = (%v, %v), want (%v, %v)",
				tt.year, tt.month, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestMonthRange_IncludesLastCalendarDay(t *testing.T) {
	tests := []struct {
		year  int
		month int
		day   int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29}, // leap year
		{2026, 12, 31},
	}

	for _, tt := range tests {
		start, end := MonthRange(tt.year, tt.month)
		date := time.Date(tt.year, time.Month(tt.month), tt.day, 0, 0, 0, 0, time.UTC)
		if date.Before(start) || !date.Before(end) {
			t.Errorf("Expected %v to fall inside [%v, %v)", date, start, end)
		}

		// The first day of the next month is out
		next := date.AddDate(0, 0, 1)
		if next.Before(end) {
			t.Errorf("Expected %v to fall outside [%v, %v)", next, start, end)
		}
	}
}

func TestFormatYearMonth(t *testing.T) {
	if got := FormatYearMonth(2026, 3); got != "2026-03" {
		t.Errorf("FormatYearMonth(2026, 3) = %q, want %q", got, "2026-03")
	}
	if got := FormatYearMonth(2026, 12); got != "2026-12" {
		t.Errorf("FormatYearMonth(2026, 12) = %q, want %q", got, "2026-12")
	}
}
