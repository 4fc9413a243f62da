package calendar

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/shared/daterange"
)

var (
	ErrIncompleteSelection = errors.New("calendar: select both check-in and check-out dates")
	ErrDayNotSelectable    = errors.New("calendar: day is booked or in the past")
)

// Availability is the part of the availability store the engine consumes.
type Availability interface {
	Load(ctx context.Context, room availability.RoomID) []daterange.Interval
	IsBooked(room availability.RoomID, date time.Time) bool
}

// Confirmation is handed to the surrounding application on Confirm.
type Confirmation struct {
	Room     availability.RoomID
	CheckIn  time.Time
	CheckOut time.Time
}

// Engine owns one SelectionState and drives the check-in/check-out gesture.
type Engine struct {
	store  Availability
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	state   SelectionState
	visible bool
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func NewEngine(store Availability, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Displayed = daterange.MonthOf(e.today())
	return e
}

// OpenForRoom shows the calendar for room with a fresh selection, loads the
// room's availability and renders the result.
func (e *Engine) OpenForRoom(ctx context.Context, room availability.RoomID) MonthView {
	e.Show(room)
	return e.Reload(ctx, room)
}

// Show resets the gesture for room and makes the calendar visible, rendering
// with whatever availability is already known.
func (e *Engine) Show(room availability.RoomID) MonthView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Room = room
	e.state.Selection = Selection{}
	e.state.Displayed = daterange.MonthOf(e.today())
	e.visible = true
	return e.renderLocked()
}

// Reload fetches availability for room. The store keys writes by room, so a
// stale load for another room cannot clobber the current one.
func (e *Engine) Reload(ctx context.Context, room availability.RoomID) MonthView {
	if e.store != nil {
		e.store.Load(ctx, room)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderLocked()
}

// Close hides the calendar and clears the selection. Room and loaded
// availability are kept.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

func (e *Engine) closeLocked() {
	e.visible = false
	e.state.Selection = Selection{}
}

func (e *Engine) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// NavigateMonth moves the displayed month by delta without touching the selection.
func (e *Engine) NavigateMonth(delta int) MonthView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Displayed = e.state.Displayed.Add(delta)
	return e.renderLocked()
}

// SelectDay advances the selection with a click on date and displays the
// month containing it. Clicks on booked or past days are ignored.
func (e *Engine) SelectDay(date time.Time) (MonthView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state := e.classifyLocked(date); !state.Interactive() {
		if e.logger != nil {
			e.logger.Debug("ignored click on non-interactive day", "room", e.state.Room, "date", daterange.Day(date).Format(daterange.DayLayout), "state", state)
		}
		return e.renderLocked(), ErrDayNotSelectable
	}
	e.state.Selection = e.state.Selection.Advance(date)
	e.state.Displayed = daterange.MonthOf(daterange.Day(date))
	return e.renderLocked(), nil
}

// ComputeDayState classifies date against the current state.
func (e *Engine) ComputeDayState(date time.Time) DayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classifyLocked(date)
}

// Render returns the current month view.
func (e *Engine) Render() MonthView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderLocked()
}

func (e *Engine) State() SelectionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Confirm hands the completed selection to onConfirm and closes the
// calendar. An incomplete selection leaves everything untouched.
func (e *Engine) Confirm(onConfirm func(Confirmation)) error {
	e.mu.Lock()
	if e.state.Selection.Phase() != PhaseComplete {
		e.mu.Unlock()
		return ErrIncompleteSelection
	}
	confirmed := Confirmation{
		Room:     e.state.Room,
		CheckIn:  e.state.Selection.CheckIn,
		CheckOut: e.state.Selection.CheckOut,
	}
	e.closeLocked()
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("dates confirmed", "room", confirmed.Room,
			"check_in", confirmed.CheckIn.Format(daterange.DayLayout),
			"check_out", confirmed.CheckOut.Format(daterange.DayLayout))
	}
	if onConfirm != nil {
		onConfirm(confirmed)
	}
	return nil
}

func (e *Engine) classifyLocked(date time.Time) DayState {
	return Classify(date, e.today(), e.state.Selection, e.bookedFn(e.state.Room))
}

func (e *Engine) renderLocked() MonthView {
	view := renderMonth(e.state.Displayed, e.today(), e.state.Selection, e.bookedFn(e.state.Room))
	view.Room = e.state.Room
	return view
}

func (e *Engine) bookedFn(room availability.RoomID) func(time.Time) bool {
	if e.store == nil {
		return nil
	}
	return func(d time.Time) bool { return e.store.IsBooked(room, d) }
}

func (e *Engine) today() time.Time {
	return daterange.Day(e.now())
}
