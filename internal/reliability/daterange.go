package reliability

import (
	"errors"
	"time"
)

// ErrInvalidDateRangeLabel is returned for range labels outside the known set.
// It is never fatal: callers fall back to Last30Days.
var ErrInvalidDateRangeLabel = errors.New("invalid date range label")

// RangeLabel names a look-back window ending at the evaluation instant
type RangeLabel string

const (
	Last30Days  RangeLabel = "Last 30 Days"
	Last60Days  RangeLabel = "Last 60 Days"
	Last90Days  RangeLabel = "Last 90 Days"
	Last6Months RangeLabel = "Last 6 Months"
	LastYear    RangeLabel = "Last Year"
)

// RangeLabels lists the supported windows from shortest to longest
var RangeLabels = []RangeLabel{Last30Days, Last60Days, Last90Days, Last6Months, LastYear}

// DateRange is a resolved look-back window
type DateRange struct {
	Label     RangeLabel
	Start     time.Time
	End       time.Time
	Defaulted bool // label was not recognised
}

// ParseRangeLabel validates s. Unknown labels yield Last30Days together
// with ErrInvalidDateRangeLabel.
func ParseRangeLabel(s string) (RangeLabel, error) {
	for _, l := range RangeLabels {
		if string(l) == s {
			return l, nil
		}
	}
	return Last30Days, ErrInvalidDateRangeLabel
}

// ResolveDateRange maps label to [now-offset, now]. Month and year offsets use
// calendar arithmetic, so 31 August minus six months normalises to early March.
func ResolveDateRange(label string, now time.Time) DateRange {
	l, err := ParseRangeLabel(label)
	r := DateRange{Label: l, End: now, Defaulted: err != nil}

	switch l {
	case Last60Days:
		r.Start = now.AddDate(0, 0, -60)
	case Last90Days:
		r.Start = now.AddDate(0, 0, -90)
	case Last6Months:
		r.Start = now.AddDate(0, -6, 0)
	case LastYear:
		r.Start = now.AddDate(-1, 0, 0)
	default:
		r.Start = now.AddDate(0, 0, -30)
	}
	return r
}
