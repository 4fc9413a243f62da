package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func validParams() CreateParams {
	return CreateParams{
		ID:        "b-1",
		RoomCode:  "room1",
		Name:      "Ana Cueto",
		Email:     "ana@example.com",
		Guests:    2,
		CheckIn:   day(2025, time.November, 5),
		CheckOut:  day(2025, time.November, 10),
		CreatedAt: time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewBookingRecordsCreatedEvent(t *testing.T) {
	b, err := NewBooking(validParams())
	require.NoError(t, err)

	assert.Equal(t, RoomCode("room1"), b.RoomCode)
	assert.Equal(t, day(2025, time.November, 5), b.CheckIn)
	assert.Equal(t, day(2025, time.November, 10), b.CheckOut)

	evs := b.PendingEvents()
	require.Len(t, evs, 1)
	created, ok := evs[0].(BookingCreated)
	require.True(t, ok)
	assert.Equal(t, EventBookingCreated, created.EventName())
	assert.Equal(t, "b-1", created.AggregateID())
	assert.Equal(t, RoomCode("room1"), created.RoomCode)
}

func TestNewBookingNormalisesDays(t *testing.T) {
	params := validParams()
	params.CheckIn = time.Date(2025, time.November, 5, 15, 0, 0, 0, time.UTC)
	params.CheckOut = time.Date(2025, time.November, 6, 11, 0, 0, 0, time.UTC)
	b, err := NewBooking(params)
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.November, 5), b.Stay().Start)
	assert.Equal(t, day(2025, time.November, 6), b.Stay().End)
}

func TestNewBookingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateParams)
		want   error
	}{
		{name: "missing room", mutate: func(p *CreateParams) { p.RoomCode = "  " }, want: ErrRoomRequired},
		{name: "missing name", mutate: func(p *CreateParams) { p.Name = "" }, want: ErrNameRequired},
		{name: "bad email", mutate: func(p *CreateParams) { p.Email = "ana.example.com" }, want: ErrInvalidEmail},
		{name: "display name email", mutate: func(p *CreateParams) { p.Email = "Ana <ana@example.com>" }, want: ErrInvalidEmail},
		{name: "zero guests", mutate: func(p *CreateParams) { p.Guests = 0 }, want: ErrInvalidGuests},
		{name: "same day stay", mutate: func(p *CreateParams) { p.CheckOut = p.CheckIn }, want: ErrInvalidStay},
		{name: "reversed stay", mutate: func(p *CreateParams) { p.CheckOut = day(2025, time.November, 1) }, want: ErrInvalidStay},
		{name: "missing checkin", mutate: func(p *CreateParams) { p.CheckIn = time.Time{} }, want: ErrInvalidStay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewBooking(params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
