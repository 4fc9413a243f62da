package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casacueto/internal/domain/calendar"
	"casacueto/internal/domain/shared/daterange"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestRenderGrid(t *testing.T) {
	sel := calendar.Selection{CheckIn: day(2025, time.November, 5), CheckOut: day(2025, time.November, 10)}
	booked := []daterange.Interval{{Start: day(2025, time.October, 30), End: day(2025, time.November, 2)}}
	view := calendar.RenderMonth(daterange.Month{Year: 2025, Month: time.November}, day(2025, time.October, 20), sel, booked)
	view.Room = "room1"

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, view))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	assert.Equal(t, "November 2025  (room room1)", lines[0])
	assert.Equal(t, weekHeader, lines[1])
	// November 2025 starts on a Saturday.
	assert.Equal(t, strings.Repeat("    ", 6)+" 1x", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], " 2x  3   4   5[  6-"), lines[3])
	assert.Contains(t, lines[4], "10]")
	assert.Equal(t, "check-in 2025-11-05 check-out 2025-11-10", lines[len(lines)-1])
}

func TestSelectionSummaryPhases(t *testing.T) {
	assert.Equal(t, "pick check-in", SelectionSummary(calendar.Selection{}))
	assert.Equal(t, "check-in 2025-11-05, pick check-out", SelectionSummary(calendar.Selection{CheckIn: day(2025, time.November, 5)}))
}

func TestLegendCoversAllStates(t *testing.T) {
	legend := Legend()
	for _, name := range []string{"available", "booked", "past", "selected", "range-start", "range-end", "in-range"} {
		assert.Contains(t, legend, name)
	}
}
