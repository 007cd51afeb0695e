package domain

import "time"

// DateLayout is the wire format for configuration dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive [Start, End] span of calendar days.
// Both bounds are dates; any time-of-day component is ignored.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MonthWindow is a sub-range of a DateRange that never crosses a month
// boundary, keeping each request inside the service's 31-day span limit.
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// Partition splits the range into calendar-month windows in ascending
// order. The first window starts at the range start, the last ends at the
// range end, and interior windows cover their full month. The windows
// concatenate to exactly the original range. A range contained in a single
// month yields one window. Returns ErrInvalidRange when End precedes Start.
func (r DateRange) Partition() ([]MonthWindow, error) {
	start := truncateToDay(r.Start)
	end := truncateToDay(r.End)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	var windows []MonthWindow
	cur := start
	for {
		monthEnd := lastOfMonth(cur)
		if !monthEnd.Before(end) {
			windows = append(windows, MonthWindow{Start: cur, End: end})
			return windows, nil
		}
		windows = append(windows, MonthWindow{Start: cur, End: monthEnd})
		cur = monthEnd.AddDate(0, 0, 1)
	}
}

// Dashless renders a date in the separator-free form the CO-OPS API
// expects for begin_date/end_date, e.g. 2015-07-01 -> "20150701".
func Dashless(d time.Time) string {
	return d.Format("20060102")
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastOfMonth(d time.Time) time.Time {
	return firstOfMonth(d).AddDate(0, 1, -1)
}

func truncateToDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
