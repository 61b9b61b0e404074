package utils

import (
	"fmt"
	"math"
	"time"
)

// monthLabels are the fixed chart bucket labels, index 0 = January.
var monthLabels = [12]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// MonthYear derives the denormalized month key from a transaction date,
// e.g. "June 2025". Wall-clock month of t, no timezone normalization.
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}

// MonthLabel returns the three-letter bucket label for a month (1..12).
func MonthLabel(month time.Month) string {
	return monthLabels[int(month)-1]
}

// YearRange returns the half-open interval [Jan 1 year, Jan 1 year+1).
func YearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// Round2 rounds an amount to two decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ParseDate accepts RFC3339 plus the date-only and date-time layouts the
// forms send.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", s)
}
