package calendar

import (
	"time"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/shared/daterange"
)

// DayState is the render classification of a single calendar day.
type DayState int

const (
	Available DayState = iota
	Booked
	Past
	SelectedSingle
	RangeStart
	RangeEnd
	InRange
)

var dayStateNames = map[DayState]string{
	Available:      "available",
	Booked:         "booked",
	Past:           "past",
	SelectedSingle: "selected",
	RangeStart:     "range-start",
	RangeEnd:       "range-end",
	InRange:        "in-range",
}

func (s DayState) String() string {
	if name, ok := dayStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Interactive reports whether a click on a day in this state is dispatched to SelectDay.
func (s DayState) Interactive() bool {
	return s != Booked && s != Past
}

// Phase is the tri-state of the two-click selection gesture.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseCheckIn
	PhaseComplete
)

// Selection holds the check-in/check-out pair. A zero time means unset.
type Selection struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (s Selection) Phase() Phase {
	switch {
	case s.CheckIn.IsZero():
		return PhaseEmpty
	case s.CheckOut.IsZero():
		return PhaseCheckIn
	default:
		return PhaseComplete
	}
}

// Advance applies one day click to the selection. Ranges are strictly
// increasing: a click on or before the current check-in restarts the gesture.
func (s Selection) Advance(date time.Time) Selection {
	d := daterange.Day(date)
	switch s.Phase() {
	case PhaseEmpty, PhaseComplete:
		return Selection{CheckIn: d}
	}
	if d.After(daterange.Day(s.CheckIn)) {
		return Selection{CheckIn: s.CheckIn, CheckOut: d}
	}
	return Selection{CheckIn: d}
}

// SelectionState is the full state owned by one Engine.
type SelectionState struct {
	Room      availability.RoomID
	Selection Selection
	Displayed daterange.Month
}

// Classify evaluates the priority chain for one day; the first match wins.
func Classify(date, today time.Time, sel Selection, booked func(time.Time) bool) DayState {
	d := daterange.Day(date)
	if booked != nil && booked(d) {
		return Booked
	}
	if d.Before(daterange.Day(today)) {
		return Past
	}
	hasIn := !sel.CheckIn.IsZero()
	hasOut := !sel.CheckOut.IsZero()
	isStart := hasIn && daterange.SameDay(d, sel.CheckIn)
	isEnd := hasOut && daterange.SameDay(d, sel.CheckOut)

	switch {
	case isStart && !hasOut:
		return SelectedSingle
	case isStart && isEnd:
		return SelectedSingle
	case isStart:
		return RangeStart
	case isEnd:
		return RangeEnd
	case hasIn && hasOut && !d.Before(daterange.Day(sel.CheckIn)) && !d.After(daterange.Day(sel.CheckOut)):
		return InRange
	}
	return Available
}
