package bookingsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/shared/daterange"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestBookedIntervalsParsesRanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/room1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"start":"2025-10-30T00:00:00.000Z","end":"2025-11-02T00:00:00.000Z"},{"start":"2025-11-20","end":"2025-11-21"}]`)
	}))
	defer srv.Close()

	got, err := New(srv.URL+"/", time.Second).BookedIntervals(context.Background(), "room1")
	require.NoError(t, err)
	assert.Equal(t, []daterange.Interval{
		{Start: day(2025, time.October, 30), End: day(2025, time.November, 2)},
		{Start: day(2025, time.November, 20), End: day(2025, time.November, 21)},
	}, got)
}

func TestBookedIntervalsErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"db down"}`, wantErr: ErrUnexpectedStatus},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrMalformedBody},
		{name: "bad date", status: http.StatusOK, body: `[{"start":"yesterday","end":"2025-11-02"}]`, wantErr: ErrMalformedBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()
			_, err := New(srv.URL, time.Second).BookedIntervals(context.Background(), "room1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientFeedsAvailabilityStoreFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := availability.NewStore(New(srv.URL, time.Second))
	got := store.Load(context.Background(), "room1")
	assert.Empty(t, got)
	assert.False(t, store.IsBooked("room1", day(2025, time.November, 1)))
}

func TestCreateBookingSendsDatesAndKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		assert.Equal(t, "k-1", r.Header.Get("Idempotency-Key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-11-05", body["checkin"])
		assert.Equal(t, "2025-11-09", body["checkout"])
		assert.Equal(t, float64(2), body["guests"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Booking confirmed!","booking":{"id":"b1","roomCode":"room1","checkin":"2025-11-05T00:00:00Z","checkout":"2025-11-09T00:00:00Z"}}`)
	}))
	defer srv.Close()

	res, err := New(srv.URL, time.Second).CreateBooking(context.Background(), CreateBookingRequest{
		RoomCode:       "room1",
		Name:           "Ana",
		Email:          "ana@example.com",
		Guests:         2,
		CheckIn:        time.Date(2025, time.November, 5, 15, 0, 0, 0, time.UTC),
		CheckOut:       day(2025, time.November, 9),
		IdempotencyKey: "k-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Booking confirmed!", res.Message)
	assert.Equal(t, "b1", res.Booking.ID)
}

func TestCreateBookingSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"validation failed: Email must be a valid email"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).CreateBooking(context.Background(), CreateBookingRequest{RoomCode: "room1"})
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "Email must be a valid email")
}
