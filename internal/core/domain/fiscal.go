package domain

import (
	"fmt"
	"time"
)

// FiscalYearOf returns the fiscal-year label for a date under the July-to-June
// accounting year: July 1 2025 falls in "2025-2026", June 30 2025 in "2024-2025".
func FiscalYearOf(date time.Time) string {
	year := date.Year()
	if date.Month() >= time.July {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// PeriodOf returns the posting period of a date as "YYYY-MM".
func PeriodOf(date time.Time) string {
	return date.Format("2006-01")
}
