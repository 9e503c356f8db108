package domain

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// DateRange is an inclusive window of calendar dates. Start and End are midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveDateRange builds a validated DateRange from optional YYYY-MM-DD strings.
// An empty start means the day before now's local date; an empty end means start.
func ResolveDateRange(start, end string, now time.Time) (DateRange, error) {
	var r DateRange
	if start == "" {
		y, m, d := now.Date()
		r.Start = time.Date(y, m, d-1, 0, 0, 0, 0, time.UTC)
	} else {
		t, err := ParseDate(start)
		if err != nil {
			return DateRange{}, fmt.Errorf("date_start: %w", err)
		}
		r.Start = t
	}
	if end == "" {
		r.End = r.Start
	} else {
		t, err := ParseDate(end)
		if err != nil {
			return DateRange{}, fmt.Errorf("date_end: %w", err)
		}
		r.End = t
	}
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: date_start %s is after date_end %s", ErrValidation, r.StartString(), r.EndString())
	}
	return r, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrValidation, s)
	}
	return t, nil
}

func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }
func (r DateRange) EndString() string   { return r.End.Format(DateLayout) }

// SingleDay reports whether the range covers exactly one date.
func (r DateRange) SingleDay() bool { return r.Start.Equal(r.End) }

func (r DateRange) String() string {
	if r.SingleDay() {
		return r.StartString()
	}
	return r.StartString() + " – " + r.EndString()
}
