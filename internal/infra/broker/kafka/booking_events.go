package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	availabilityapp "casacueto/internal/app/handlers/availability"
	"casacueto/internal/app/middleware"
	domainbooking "casacueto/internal/domain/booking"
	"casacueto/internal/infra/outbox"
)

// Inbox deduplicates deliveries by event id. Ids are marked only after the
// event was handled, so a failed delivery is retried in full.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// BookingEventsHandler drops the booked-dates cache entry of the room named
// in each booking.created event, so replicas that did not serve the write
// stop answering from stale cache.
type BookingEventsHandler struct {
	Inbox  Inbox
	Cache  middleware.ResultCache
	Logger *slog.Logger
}

func (h *BookingEventsHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var env outbox.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		h.log().Warn("dropping undecodable booking event", "offset", msg.Offset, "content_type", headerValue(msg, "content-type"), "error", err)
		return nil
	}
	if env.EventName() != domainbooking.EventBookingCreated {
		return nil
	}
	dedupe := h.Inbox != nil && env.ID != ""
	if dedupe {
		seen, err := h.Inbox.Seen(ctx, env.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}
	var evt domainbooking.BookingCreated
	if err := json.Unmarshal(env.Data, &evt); err != nil {
		return fmt.Errorf("kafka: decode %s data: %w", env.Type, err)
	}
	if h.Cache != nil && evt.RoomCode != "" {
		key := availabilityapp.BookedDatesCacheKey(string(evt.RoomCode))
		if err := h.Cache.Delete(ctx, key); err != nil {
			return err
		}
		h.log().Debug("booked dates cache invalidated", "room", evt.RoomCode, "event_id", env.ID)
	}
	if dedupe {
		return h.Inbox.Mark(ctx, env.ID)
	}
	return nil
}

func (h *BookingEventsHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ MessageHandler = (*BookingEventsHandler)(nil)
