package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/calendar"
	"casacueto/internal/domain/shared/daterange"
	"casacueto/internal/infra/bookingsapi"
	"casacueto/internal/infra/terminal"
)

var errQuit = errors.New("session: quit")

// Submitter sends a confirmed stay to the bookings API.
type Submitter interface {
	CreateBooking(ctx context.Context, in bookingsapi.CreateBookingRequest) (bookingsapi.CreateBookingResponse, error)
}

// session drives one engine from line-oriented input.
type session struct {
	engine *calendar.Engine
	submit Submitter
	in     *bufio.Scanner
	out    io.Writer
}

func newSession(engine *calendar.Engine, submit Submitter, in io.Reader, out io.Writer) *session {
	return &session{engine: engine, submit: submit, in: bufio.NewScanner(in), out: out}
}

const help = "commands: n next month, p previous month, <day> or YYYY-MM-DD select, c confirm, r reload, q quit"

func (s *session) run(ctx context.Context, room availability.RoomID) error {
	view := s.engine.OpenForRoom(ctx, room)
	s.show(view)
	fmt.Fprintln(s.out, help)

	for s.engine.Visible() {
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			s.engine.Close()
			return nil
		}
		if err := s.handle(ctx, room, line); err != nil {
			if errors.Is(err, errQuit) {
				s.engine.Close()
				return nil
			}
			return err
		}
	}
	return nil
}

func (s *session) handle(ctx context.Context, room availability.RoomID, line string) error {
	switch cmd := strings.ToLower(line); cmd {
	case "":
		return nil
	case "q", "quit":
		return errQuit
	case "n", "next":
		s.show(s.engine.NavigateMonth(1))
	case "p", "prev":
		s.show(s.engine.NavigateMonth(-1))
	case "r", "reload":
		s.show(s.engine.Reload(ctx, room))
	case "?", "h", "help":
		fmt.Fprintln(s.out, help)
		fmt.Fprintln(s.out, terminal.Legend())
	case "c", "confirm":
		var confirmed *calendar.Confirmation
		err := s.engine.Confirm(func(c calendar.Confirmation) { confirmed = &c })
		if errors.Is(err, calendar.ErrIncompleteSelection) {
			fmt.Fprintln(s.out, "select both check-in and check-out dates first")
			return nil
		}
		if err != nil {
			return err
		}
		return s.book(ctx, *confirmed)
	default:
		date, err := s.parseDate(cmd)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return nil
		}
		view, err := s.engine.SelectDay(date)
		if errors.Is(err, calendar.ErrDayNotSelectable) {
			fmt.Fprintf(s.out, "%s is not available\n", date.Format(daterange.DayLayout))
			return nil
		}
		s.show(view)
	}
	return nil
}

// parseDate reads a day of the displayed month or a full date.
func (s *session) parseDate(raw string) (time.Time, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		month := s.engine.State().Displayed
		if n < 1 || n > month.Days() {
			return time.Time{}, fmt.Errorf("%s has no day %d", month, n)
		}
		return time.Date(month.Year, month.Month, n, 0, 0, 0, 0, time.UTC), nil
	}
	d, err := daterange.ParseDay(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown command %q", raw)
	}
	return d, nil
}

// book collects guest details and submits the confirmed stay.
func (s *session) book(ctx context.Context, c calendar.Confirmation) error {
	fmt.Fprintf(s.out, "booking %s from %s to %s\n", c.Room, c.CheckIn.Format(daterange.DayLayout), c.CheckOut.Format(daterange.DayLayout))
	name, ok := s.prompt("name")
	if !ok {
		return nil
	}
	email, ok := s.prompt("email")
	if !ok {
		return nil
	}
	var guests int
	for {
		raw, ok := s.prompt("guests")
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err == nil && n > 0 {
			guests = n
			break
		}
		fmt.Fprintln(s.out, "guests must be a positive number")
	}

	res, err := s.submit.CreateBooking(ctx, bookingsapi.CreateBookingRequest{
		RoomCode:       string(c.Room),
		Name:           name,
		Email:          email,
		Guests:         guests,
		CheckIn:        c.CheckIn,
		CheckOut:       c.CheckOut,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		fmt.Fprintf(s.out, "booking failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "%s (id %s)\n", res.Message, res.Booking.ID)
	return nil
}

func (s *session) prompt(label string) (string, bool) {
	fmt.Fprintf(s.out, "%s: ", label)
	return s.readLine()
}

func (s *session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) show(view calendar.MonthView) {
	_ = terminal.Render(s.out, view)
}
