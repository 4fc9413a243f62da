package booking

import "time"

const EventBookingCreated = "booking.created"

type BookingCreated struct {
	BookingID BookingID `json:"booking_id"`
	RoomCode  RoomCode  `json:"room_code"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Guests    int       `json:"guests"`
	At        time.Time `json:"at"`
}

func (e BookingCreated) EventName() string     { return EventBookingCreated }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }
