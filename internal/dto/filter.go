package dto

import (
	"fmt"
	"time"
)

// Filter modes accepted by the admin listings.
const (
	FilterAll   = "all"
	FilterDay   = "day"
	FilterMonth = "month"
)

// PeriodFilter narrows a listing to one calendar day (YYYY-MM-DD) or one month
// (YYYY-MM). Mode "all" ignores Date.
type PeriodFilter struct {
	Mode string `form:"filter" validate:"omitempty,oneof=all day month"`
	Date string `form:"date"`
}

// Range resolves the filter to a half-open [from, to) interval in loc. Both are
// nil for mode "all". A day or month filter without a date means the current one.
func (f PeriodFilter) Range(now time.Time, loc *time.Location) (*time.Time, *time.Time, error) {
	now = now.In(loc)
	switch f.Mode {
	case "", FilterAll:
		return nil, nil, nil
	case FilterDay:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		if f.Date != "" {
			d, err := time.ParseInLocation("2006-01-02", f.Date, loc)
			if err != nil {
				return nil, nil, fmt.Errorf("filter: day must be YYYY-MM-DD: %w", err)
			}
			day = d
		}
		to := day.AddDate(0, 0, 1)
		return &day, &to, nil
	case FilterMonth:
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		if f.Date != "" {
			m, err := time.ParseInLocation("2006-01", f.Date, loc)
			if err != nil {
				return nil, nil, fmt.Errorf("filter: month must be YYYY-MM: %w", err)
			}
			month = m
		}
		to := month.AddDate(0, 1, 0)
		return &month, &to, nil
	default:
		return nil, nil, fmt.Errorf("filter: unknown mode %q", f.Mode)
	}
}

// Key is a stable cache-key suffix for the filter. from is the resolved start
// returned by Range, so a dateless day or month filter keys on the actual
// period and rolls over at midnight.
func (f PeriodFilter) Key(from *time.Time) string {
	if from == nil {
		return FilterAll
	}
	return f.Mode + ":" + from.Format("2006-01-02")
}
