// Package budget computes how much of a budget's limit has been consumed
// within its active date window and classifies the result into a severity
// band for display. Everything here is a pure function of its inputs.
package budget

import (
	"errors"
	"time"
)

// Period is the recurrence granularity of a budget.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

var (
	// ErrUnknownPeriod is returned for a period outside weekly/monthly/yearly.
	ErrUnknownPeriod = errors.New("budget: unknown period")
	// ErrEndBeforeStart is returned when a budget's end date precedes its start date.
	ErrEndBeforeStart = errors.New("budget: end date before start date")
)

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Advance moves t forward by one period using calendar arithmetic
// (7 days, 1 month or 1 year). Month and year overflow normalise the way
// time.AddDate does, so Jan 31 + 1 month is Mar 3 (or Mar 2 in leap years).
func (p Period) Advance(t time.Time) (time.Time, error) {
	switch p {
	case Weekly:
		return t.AddDate(0, 0, 7), nil
	case Monthly:
		return t.AddDate(0, 1, 0), nil
	case Yearly:
		return t.AddDate(1, 0, 0), nil
	}
	return time.Time{}, ErrUnknownPeriod
}

// proxyDays is the fixed day count used only for the daily-rate preview.
func (p Period) proxyDays() (int64, bool) {
	switch p {
	case Weekly:
		return 7, true
	case Monthly:
		return 30, true
	case Yearly:
		return 365, true
	}
	return 0, false
}

// DailyRate estimates how much may be spent per day for a limit over the
// given period. It is a display estimate and never feeds window resolution.
func DailyRate(amount int64, p Period) (float64, error) {
	days, ok := p.proxyDays()
	if !ok {
		return 0, ErrUnknownPeriod
	}
	return float64(amount) / float64(days), nil
}
