package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInterval = errors.New("daterange: end must not be before start")
	ErrInvalidDay      = errors.New("daterange: unrecognised date")
)

const DayLayout = "2006-01-02"

// Day truncates t to midnight UTC of the calendar day it falls on in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// ParseDay accepts plain dates as well as RFC3339 timestamps.
func ParseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrInvalidDay
	}
	for _, layout := range []string{DayLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, raw)
}

// Interval is an inclusive [Start, End] range of calendar days.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: Day(start), End: Day(end)}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (iv Interval) Validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return ErrInvalidInterval
	}
	if Day(iv.End).Before(Day(iv.Start)) {
		return ErrInvalidInterval
	}
	return nil
}

func (iv Interval) ContainsDay(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(iv.Start)) && !d.After(Day(iv.End))
}

func (iv Interval) Overlaps(other Interval) bool {
	return !Day(iv.Start).After(Day(other.End)) && !Day(other.Start).After(Day(iv.End))
}

func (iv Interval) Days() int {
	return int(Day(iv.End).Sub(Day(iv.Start)).Hours()/24) + 1
}

func (iv Interval) String() string {
	return iv.Start.Format(DayLayout) + ".." + iv.End.Format(DayLayout)
}
