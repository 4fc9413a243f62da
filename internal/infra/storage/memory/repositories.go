package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	domainbooking "casacueto/internal/domain/booking"
)

// ErrBookingExists is returned when a booking id is saved twice.
var ErrBookingExists = errors.New("memory: booking already exists")

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu     sync.RWMutex
	items  map[domainbooking.BookingID]*domainbooking.Booking
	byRoom map[domainbooking.RoomCode][]domainbooking.BookingID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		items:  make(map[domainbooking.BookingID]*domainbooking.Booking),
		byRoom: make(map[domainbooking.RoomCode][]domainbooking.BookingID),
	}
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[booking.ID]; exists {
		return ErrBookingExists
	}
	stored := *booking
	stored.ClearEvents()
	r.items[booking.ID] = &stored
	r.byRoom[booking.RoomCode] = append(r.byRoom[booking.RoomCode], booking.ID)
	return nil
}

// ListByRoom returns the room's bookings ordered by check-in.
func (r *BookingRepository) ListByRoom(ctx context.Context, room domainbooking.RoomCode) ([]*domainbooking.Booking, error) {
	code := domainbooking.RoomCode(strings.TrimSpace(string(room)))
	if code == "" {
		return nil, domainbooking.ErrRoomRequired
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byRoom[code]
	out := make([]*domainbooking.Booking, 0, len(ids))
	for _, id := range ids {
		b := *r.items[id]
		out = append(out, &b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (r *BookingRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
