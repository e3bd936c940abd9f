package scrape

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned for a date range the court cannot have dockets for
var ErrInvalidRange = errors.New("invalid date range")

// ParseDate parses a YYYY-MM-DD date as a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// EndOfYear returns December 31 of t's year
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// ValidateRange checks minDate <= start <= end <= December 31 of the current year
func ValidateRange(start, end, minDate, now time.Time) error {
	if start.Before(minDate) {
		return fmt.Errorf("%w: start date %s is before %s", ErrInvalidRange,
			start.Format("2006-01-02"), minDate.Format("2006-01-02"))
	}
	if limit := EndOfYear(now); end.After(limit) {
		return fmt.Errorf("%w: end date %s is after %s", ErrInvalidRange,
			end.Format("2006-01-02"), limit.Format("2006-01-02"))
	}
	if start.After(end) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateYear checks minYear <= year <= the current year
func ValidateYear(year, minYear int, now time.Time) error {
	if year < minYear || year > now.Year() {
		return fmt.Errorf("%w: year %d is outside %d-%d", ErrInvalidRange, year, minYear, now.Year())
	}
	return nil
}
