package dto

import (
	"time"

	domainbooking "casacueto/internal/domain/booking"
)

// BookedRange is one entry of the booked-dates response for a room.
type BookedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Booking struct {
	ID        string    `json:"id"`
	RoomCode  string    `json:"roomCode"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Guests    int       `json:"guests"`
	CheckIn   time.Time `json:"checkin"`
	CheckOut  time.Time `json:"checkout"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookingCreated struct {
	Message string  `json:"message"`
	Booking Booking `json:"booking"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:        string(b.ID),
		RoomCode:  string(b.RoomCode),
		Name:      b.Name,
		Email:     b.Email,
		Guests:    b.Guests,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		CreatedAt: b.CreatedAt,
	}
}

func MapBookedRanges(bookings []*domainbooking.Booking) []BookedRange {
	out := make([]BookedRange, 0, len(bookings))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		stay := b.Stay()
		out = append(out, BookedRange{Start: stay.Start, End: stay.End})
	}
	return out
}
