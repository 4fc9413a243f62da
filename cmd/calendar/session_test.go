package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/calendar"
	"casacueto/internal/domain/shared/daterange"
	"casacueto/internal/infra/bookingsapi"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

type staticSource struct{}

func (staticSource) BookedIntervals(ctx context.Context, room availability.RoomID) ([]daterange.Interval, error) {
	return []daterange.Interval{{Start: day(2025, time.October, 30), End: day(2025, time.November, 2)}}, nil
}

type recordingSubmitter struct {
	got []bookingsapi.CreateBookingRequest
}

func (r *recordingSubmitter) CreateBooking(ctx context.Context, in bookingsapi.CreateBookingRequest) (bookingsapi.CreateBookingResponse, error) {
	r.got = append(r.got, in)
	return bookingsapi.CreateBookingResponse{Message: "Booking confirmed!", Booking: bookingsapi.Booking{ID: "b1"}}, nil
}

func newTestEngine() *calendar.Engine {
	store := availability.NewStore(staticSource{})
	return calendar.NewEngine(store, calendar.WithClock(func() time.Time {
		return time.Date(2025, time.October, 20, 9, 30, 0, 0, time.UTC)
	}))
}

func TestSessionBooksConfirmedStay(t *testing.T) {
	engine := newTestEngine()
	submitter := &recordingSubmitter{}
	input := strings.Join([]string{"n", "1", "c", "5", "10", "c", "Ana", "ana@example.com", "two", "2"}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, newSession(engine, submitter, strings.NewReader(input), &out).run(context.Background(), "room1"))

	text := out.String()
	assert.Contains(t, text, "2025-11-01 is not available")
	assert.Contains(t, text, "select both check-in and check-out dates first")
	assert.Contains(t, text, "guests must be a positive number")
	assert.Contains(t, text, "Booking confirmed! (id b1)")

	require.Len(t, submitter.got, 1)
	req := submitter.got[0]
	assert.Equal(t, "room1", req.RoomCode)
	assert.Equal(t, day(2025, time.November, 5), req.CheckIn)
	assert.Equal(t, day(2025, time.November, 10), req.CheckOut)
	assert.Equal(t, 2, req.Guests)
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.False(t, engine.Visible())
}

func TestSessionQuitClosesCalendar(t *testing.T) {
	engine := newTestEngine()
	submitter := &recordingSubmitter{}
	var out bytes.Buffer
	require.NoError(t, newSession(engine, submitter, strings.NewReader("2025-11-05\nq\n"), &out).run(context.Background(), "room1"))
	assert.False(t, engine.Visible())
	assert.Equal(t, calendar.PhaseEmpty, engine.State().Selection.Phase())
	assert.Empty(t, submitter.got)
}

func TestSessionRejectsUnknownInput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newSession(newTestEngine(), &recordingSubmitter{}, strings.NewReader("tomorrow\n40\n"), &out).run(context.Background(), "room1"))
	assert.Contains(t, out.String(), `unknown command "tomorrow"`)
	assert.Contains(t, out.String(), "2025-10 has no day 40")
}

func TestMonthCommandRendersRequestedMonth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"start":"2025-12-20","end":"2025-12-27"}]`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"month", "room1", "--api-url", srv.URL, "--today", "2025-10-20", "--month", "2025-12"})
	require.NoError(t, root.Execute())

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "December 2025  (room room1)"), text)
	assert.Contains(t, text, "20x")
	assert.Contains(t, text, "27x")
	assert.Contains(t, text, "28 ")
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 2, monthsBetween(daterange.Month{Year: 2025, Month: time.October}, daterange.Month{Year: 2025, Month: time.December}))
	assert.Equal(t, -11, monthsBetween(daterange.Month{Year: 2025, Month: time.January}, daterange.Month{Year: 2024, Month: time.February}))
}

func TestRootCommandUsesLoadedClientConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BOOKINGS_API_URL", srv.URL)

	var logs bytes.Buffer
	root := newRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(&logs)
	root.SetArgs([]string{"month", "room1", "--today", "2025-10-20"})
	require.NoError(t, root.Execute())
	assert.Contains(t, logs.String(), `"msg":"availability loaded"`)
}

func TestRootCommandRejectsBadClientConfig(t *testing.T) {
	t.Setenv("BOOKINGS_API_TIMEOUT", "soon")
	root := newRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"month", "room1"})
	assert.Error(t, root.Execute())
}
