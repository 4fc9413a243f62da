package booking

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"casacueto/internal/domain/shared/daterange"
	"casacueto/internal/domain/shared/events"
)

var (
	ErrRoomRequired  = errors.New("booking: room code is required")
	ErrNameRequired  = errors.New("booking: name is required")
	ErrInvalidEmail  = errors.New("booking: email is invalid")
	ErrInvalidGuests = errors.New("booking: guests count must be positive")
	ErrInvalidStay   = errors.New("booking: checkout must be after checkin")
)

type BookingID string

// RoomCode is the opaque key scoping bookings and availability to one room.
type RoomCode string

type Booking struct {
	ID        BookingID
	RoomCode  RoomCode
	Name      string
	Email     string
	Guests    int
	CheckIn   time.Time
	CheckOut  time.Time
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	Save(ctx context.Context, booking *Booking) error
	ListByRoom(ctx context.Context, room RoomCode) ([]*Booking, error)
}

type CreateParams struct {
	ID        BookingID
	RoomCode  RoomCode
	Name      string
	Email     string
	Guests    int
	CheckIn   time.Time
	CheckOut  time.Time
	CreatedAt time.Time
}

// NewBooking validates the request and records BookingCreated.
// Overlap with existing bookings is deliberately not checked here.
func NewBooking(params CreateParams) (*Booking, error) {
	room := RoomCode(strings.TrimSpace(string(params.RoomCode)))
	if room == "" {
		return nil, ErrRoomRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(params.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	checkIn := daterange.Day(params.CheckIn)
	checkOut := daterange.Day(params.CheckOut)
	if params.CheckIn.IsZero() || params.CheckOut.IsZero() || !checkOut.After(checkIn) {
		return nil, ErrInvalidStay
	}
	now := params.CreatedAt.UTC()
	if now.IsZero() {
		now = time.Now().UTC()
	}
	b := &Booking{
		ID:        params.ID,
		RoomCode:  room,
		Name:      name,
		Email:     email,
		Guests:    params.Guests,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		CreatedAt: now,
	}
	b.Record(BookingCreated{
		BookingID: b.ID,
		RoomCode:  b.RoomCode,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Guests:    b.Guests,
		At:        now,
	})
	return b, nil
}

// Stay is the inclusive day range the booking blocks on the calendar.
func (b *Booking) Stay() daterange.Interval {
	return daterange.Interval{Start: b.CheckIn, End: b.CheckOut}
}
