package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"casacueto/internal/domain/calendar"
	"casacueto/internal/domain/shared/daterange"
)

var markers = map[calendar.DayState]byte{
	calendar.Available:      ' ',
	calendar.Booked:         'x',
	calendar.Past:           '.',
	calendar.SelectedSingle: '*',
	calendar.RangeStart:     '[',
	calendar.RangeEnd:       ']',
	calendar.InRange:        '-',
}

const weekHeader = "Su  Mo  Tu  We  Th  Fr  Sa"

// Marker returns the single-character style class of a state.
func Marker(s calendar.DayState) byte {
	if m, ok := markers[s]; ok {
		return m
	}
	return '?'
}

// Render writes view as a Sunday-first grid. Each cell is the day number
// followed by its state marker.
func Render(w io.Writer, view calendar.MonthView) error {
	bw := bufio.NewWriter(w)
	first := view.Month.First()
	title := fmt.Sprintf("%s %d", first.Month(), first.Year())
	if view.Room != "" {
		title = fmt.Sprintf("%s  (room %s)", title, view.Room)
	}
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, weekHeader)

	col := 0
	for i := 0; i < view.Leading; i++ {
		bw.WriteString("    ")
		col++
	}
	for _, cell := range view.Days {
		fmt.Fprintf(bw, "%2d%c", cell.Date.Day(), Marker(cell.State))
		col++
		if col == 7 {
			bw.WriteByte('\n')
			col = 0
			continue
		}
		bw.WriteByte(' ')
	}
	if col != 0 {
		bw.WriteByte('\n')
	}
	fmt.Fprintln(bw, SelectionSummary(view.Selection))
	return bw.Flush()
}

// SelectionSummary describes the gesture phase in one line.
func SelectionSummary(sel calendar.Selection) string {
	switch sel.Phase() {
	case calendar.PhaseCheckIn:
		return "check-in " + sel.CheckIn.Format(daterange.DayLayout) + ", pick check-out"
	case calendar.PhaseComplete:
		return "check-in " + sel.CheckIn.Format(daterange.DayLayout) + " check-out " + sel.CheckOut.Format(daterange.DayLayout)
	default:
		return "pick check-in"
	}
}

// Legend lists every marker with its state name.
func Legend() string {
	states := []calendar.DayState{
		calendar.Available, calendar.Booked, calendar.Past,
		calendar.SelectedSingle, calendar.RangeStart, calendar.RangeEnd, calendar.InRange,
	}
	parts := make([]string, 0, len(states))
	for _, s := range states {
		parts = append(parts, fmt.Sprintf("'%c' %s", Marker(s), s))
	}
	return strings.Join(parts, "  ")
}
