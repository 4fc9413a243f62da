package availability

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"casacueto/internal/domain/shared/daterange"
)

// ErrLoadFailed marks an availability fetch that fell back to "nothing booked".
var ErrLoadFailed = errors.New("availability: load failed")

type RoomID string

// Source reads the booked intervals for one room from the booking-query interface.
type Source interface {
	BookedIntervals(ctx context.Context, room RoomID) ([]daterange.Interval, error)
}

// Observer is notified about load outcomes (metrics hook).
type Observer interface {
	LoadSucceeded(room RoomID, intervals int)
	LoadFailed(room RoomID)
}

// Store is the per-room index of booked intervals. Entries are only ever
// replaced wholesale by Load.
type Store struct {
	source   Source
	logger   *slog.Logger
	observer Observer

	mu    sync.RWMutex
	index map[RoomID][]daterange.Interval
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithObserver(obs Observer) Option {
	return func(s *Store) { s.observer = obs }
}

func NewStore(source Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		index:  make(map[RoomID][]daterange.Interval),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the room's intervals and replaces its index entry. Any failure
// is logged and stored as an empty sequence; Load never reports an error.
func (s *Store) Load(ctx context.Context, room RoomID) []daterange.Interval {
	started := time.Now()
	intervals, err := s.fetch(ctx, room)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("availability load failed, treating room as unbooked",
				"room", room, "error", errors.Join(ErrLoadFailed, err), "duration", time.Since(started))
		}
		if s.observer != nil {
			s.observer.LoadFailed(room)
		}
		intervals = []daterange.Interval{}
	} else {
		if s.logger != nil {
			s.logger.Debug("availability loaded", "room", room, "intervals", len(intervals), "duration", time.Since(started))
		}
		if s.observer != nil {
			s.observer.LoadSucceeded(room, len(intervals))
		}
	}

	s.mu.Lock()
	s.index[room] = intervals
	s.mu.Unlock()
	return cloneIntervals(intervals)
}

func (s *Store) fetch(ctx context.Context, room RoomID) ([]daterange.Interval, error) {
	if s.source == nil {
		return nil, errors.New("availability: no source configured")
	}
	raw, err := s.source.BookedIntervals(ctx, room)
	if err != nil {
		return nil, err
	}
	out := make([]daterange.Interval, 0, len(raw))
	for _, iv := range raw {
		if err := iv.Validate(); err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping invalid booked interval", "room", room, "start", iv.Start, "end", iv.End, "error", err)
			}
			continue
		}
		out = append(out, daterange.Interval{Start: daterange.Day(iv.Start), End: daterange.Day(iv.End)})
	}
	return out, nil
}

// IsBooked reports whether date falls inside any interval stored for room.
// Unknown rooms are treated as having no bookings.
func (s *Store) IsBooked(room RoomID, date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, iv := range s.index[room] {
		if iv.ContainsDay(date) {
			return true
		}
	}
	return false
}

// Intervals returns a copy of the room's current entry.
func (s *Store) Intervals(room RoomID) []daterange.Interval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneIntervals(s.index[room])
}

// Loaded reports whether any load for room has completed.
func (s *Store) Loaded(room RoomID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[room]
	return ok
}

func cloneIntervals(in []daterange.Interval) []daterange.Interval {
	out := make([]daterange.Interval, len(in))
	copy(out, in)
	return out
}
