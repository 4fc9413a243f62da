package calendar

import (
	"time"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/shared/daterange"
)

type DayCell struct {
	Date        time.Time
	State       DayState
	Interactive bool
}

// MonthView is the UI-independent rendering of one displayed month.
type MonthView struct {
	Room      availability.RoomID
	Month     daterange.Month
	Selection Selection
	// Leading is the number of blank cells before day 1 in a Sunday-first grid.
	Leading int
	Days    []DayCell
}

// Cell returns the cell for the given day of month (1-based).
func (v MonthView) Cell(dayOfMonth int) (DayCell, bool) {
	if dayOfMonth < 1 || dayOfMonth > len(v.Days) {
		return DayCell{}, false
	}
	return v.Days[dayOfMonth-1], true
}

// Count tallies days per state.
func (v MonthView) Count() map[DayState]int {
	out := make(map[DayState]int)
	for _, cell := range v.Days {
		out[cell.State]++
	}
	return out
}

// RenderMonth partitions every day of month into exactly one DayState. It is a
// pure function of its inputs.
func RenderMonth(month daterange.Month, today time.Time, sel Selection, intervals []daterange.Interval) MonthView {
	booked := func(d time.Time) bool {
		for _, iv := range intervals {
			if iv.ContainsDay(d) {
				return true
			}
		}
		return false
	}
	return renderMonth(month, today, sel, booked)
}

func renderMonth(month daterange.Month, today time.Time, sel Selection, booked func(time.Time) bool) MonthView {
	first := month.First()
	n := month.Days()
	view := MonthView{
		Month:     month,
		Selection: sel,
		Leading:   int(first.Weekday()),
		Days:      make([]DayCell, 0, n),
	}
	for d := 1; d <= n; d++ {
		date := time.Date(month.Year, month.Month, d, 0, 0, 0, 0, time.UTC)
		state := Classify(date, today, sel, booked)
		view.Days = append(view.Days, DayCell{Date: date, State: state, Interactive: state.Interactive()})
	}
	return view
}
