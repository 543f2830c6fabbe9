package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPeriod is returned by ParsePeriod for unrecognised names.
var ErrUnknownPeriod = errors.New("unknown report period")

// Period names a reporting window that ends now.
type Period string

const (
	PeriodToday     Period = "Today"
	PeriodThisWeek  Period = "This Week"
	PeriodThisMonth Period = "This Month"
	PeriodAllTime   Period = "All Time"
)

// Periods lists the supported periods in display order.
var Periods = []Period{PeriodToday, PeriodThisWeek, PeriodThisMonth, PeriodAllTime}

// ParsePeriod matches a period name case-insensitively.
func ParsePeriod(value string) (Period, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	for _, period := range Periods {
		if strings.ToLower(string(period)) == normalized {
			return period, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, value)
}

// Start returns the epoch-millisecond start of the window containing now,
// computed in now's location. Weeks start on Sunday.
func (period Period) Start(now time.Time) int64 {
	year, month, day := now.Date()
	location := now.Location()
	switch period {
	case PeriodToday:
		return time.Date(year, month, day, 0, 0, 0, 0, location).UnixMilli()
	case PeriodThisWeek:
		offset := int(now.Weekday())
		return time.Date(year, month, day-offset, 0, 0, 0, 0, location).UnixMilli()
	case PeriodThisMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, location).UnixMilli()
	default:
		return 0
	}
}
