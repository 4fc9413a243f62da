package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"casacueto/internal/app/commands"
	"casacueto/internal/app/dto"
	availabilityapp "casacueto/internal/app/handlers/availability"
	"casacueto/internal/app/middleware"
	"casacueto/internal/app/outbox"
	domainbooking "casacueto/internal/domain/booking"
)

const createBookingKey = "booking.create"

const confirmedMessage = "Booking confirmed!"

type CreateBookingCommand struct {
	CommandID       string
	RoomCode        string    `validate:"required"`
	Name            string    `validate:"required"`
	Email           string    `validate:"required,email"`
	Guests          int       `validate:"gt=0"`
	CheckIn         time.Time `validate:"required"`
	CheckOut        time.Time `validate:"required,gtfield=CheckIn"`
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.BookingCreated{} }

func (c CreateBookingCommand) InvalidatedCacheKeys() []string {
	return []string{availabilityapp.BookedDatesCacheKey(c.RoomCode)}
}

// Observer is notified once per stored booking. Idempotent replays never
// reach the handler and are not reported.
type Observer interface {
	BookingCreated()
}

type CreateBookingHandler struct {
	Bookings domainbooking.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Observer Observer
	Now      func() time.Time
}

var ErrRepositoryRequired = errors.New("booking: repository required")

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.BookingCreated, error) {
	if h.Bookings == nil {
		return nil, ErrRepositoryRequired
	}
	id := cmd.CommandID
	if id == "" {
		id = uuid.NewString()
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		RoomCode:  domainbooking.RoomCode(cmd.RoomCode),
		Name:      cmd.Name,
		Email:     cmd.Email,
		Guests:    cmd.Guests,
		CheckIn:   cmd.CheckIn,
		CheckOut:  cmd.CheckOut,
		CreatedAt: h.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := h.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}
	if h.Observer != nil {
		h.Observer.BookingCreated()
	}

	return &dto.BookingCreated{Message: confirmedMessage, Booking: dto.MapBooking(b)}, nil
}

func (h *CreateBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateBookingCommand, *dto.BookingCreated] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
var _ middleware.CacheInvalidator = CreateBookingCommand{}
