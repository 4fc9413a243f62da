package availability

import (
	"context"
	"errors"
	"sort"
	"strings"

	"casacueto/internal/app/dto"
	"casacueto/internal/app/middleware"
	"casacueto/internal/app/queries"
	domainbooking "casacueto/internal/domain/booking"
	"casacueto/internal/domain/shared/daterange"
)

const listBookedDatesKey = "availability.booked_dates"

var ErrRoomCodeRequired = errors.New("availability: room code is required")

// BookedDatesCacheKey is shared with commands that invalidate the room's entry.
func BookedDatesCacheKey(room string) string {
	return "booked-dates:" + strings.TrimSpace(room)
}

type ListBookedDatesQuery struct {
	RoomCode string `validate:"required"`
}

func (q ListBookedDatesQuery) Key() string { return listBookedDatesKey }

func (q ListBookedDatesQuery) CacheKey() string { return BookedDatesCacheKey(q.RoomCode) }

func (q ListBookedDatesQuery) ResultPrototype() any { return &[]dto.BookedRange{} }

type ListBookedDatesHandler struct {
	Bookings domainbooking.Repository
}

func (h *ListBookedDatesHandler) Handle(ctx context.Context, q ListBookedDatesQuery) ([]dto.BookedRange, error) {
	room := strings.TrimSpace(q.RoomCode)
	if room == "" {
		return nil, ErrRoomCodeRequired
	}
	bookings, err := h.Bookings.ListByRoom(ctx, domainbooking.RoomCode(room))
	if err != nil {
		return nil, err
	}
	ranges := dto.MapBookedRanges(bookings)
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })
	return ranges, nil
}

// Within keeps the ranges that share at least one day with window.
func Within(ranges []dto.BookedRange, window daterange.Interval) []dto.BookedRange {
	out := make([]dto.BookedRange, 0, len(ranges))
	for _, r := range ranges {
		if window.Overlaps(daterange.Interval{Start: r.Start, End: r.End}) {
			out = append(out, r)
		}
	}
	return out
}

var _ queries.Handler[ListBookedDatesQuery, []dto.BookedRange] = (*ListBookedDatesHandler)(nil)
var _ middleware.CacheableQuery = ListBookedDatesQuery{}
