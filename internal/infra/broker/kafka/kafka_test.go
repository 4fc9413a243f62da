package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casacueto/internal/infra/outbox"
	"casacueto/internal/infra/storage/memory"
)

func TestProducerPublishesMessage(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		assert.JSONEq(t, `{"ok":true}`, string(val))
		return nil
	})
	p := NewProducerFrom(mock)
	err := p.Publish(context.Background(), "booking.events.v1", "b1", []byte(`{"ok":true}`), map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestRecordHeadersSorted(t *testing.T) {
	hs := recordHeaders(map[string]string{"z": "1", "a": "2"})
	require.Len(t, hs, 2)
	assert.Equal(t, "a", string(hs[0].Key))
	assert.Equal(t, "z", string(hs[1].Key))
}

type deleteRecorder struct {
	deleted  []string
	failures int
}

func (d *deleteRecorder) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (d *deleteRecorder) Set(context.Context, string, []byte) error         { return nil }
func (d *deleteRecorder) Delete(_ context.Context, keys ...string) error {
	if d.failures > 0 {
		d.failures--
		return errors.New("redis down")
	}
	d.deleted = append(d.deleted, keys...)
	return nil
}

func bookingMessage(t *testing.T, id, typ string) *sarama.ConsumerMessage {
	t.Helper()
	raw, err := json.Marshal(outbox.Envelope{
		SpecVersion: "1.0",
		ID:          id,
		Type:        typ,
		Data:        json.RawMessage(`{"booking_id":"b1","room_code":"room1"}`),
	})
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "booking.events.v1", Value: raw}
}

func TestBookingEventsHandlerInvalidatesOnce(t *testing.T) {
	cache := &deleteRecorder{}
	h := &BookingEventsHandler{Inbox: memory.NewInbox(), Cache: cache}
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, bookingMessage(t, "evt-1", "booking.created.v1")))
	require.NoError(t, h.Handle(ctx, bookingMessage(t, "evt-1", "booking.created.v1")))
	assert.Equal(t, []string{"booked-dates:room1"}, cache.deleted)

	require.NoError(t, h.Handle(ctx, bookingMessage(t, "evt-2", "booking.cancelled.v1")))
	assert.Len(t, cache.deleted, 1)
}

func TestBookingEventsHandlerRetriesFailedInvalidation(t *testing.T) {
	cache := &deleteRecorder{failures: 1}
	inbox := memory.NewInbox()
	h := &BookingEventsHandler{Inbox: inbox, Cache: cache}
	ctx := context.Background()

	require.Error(t, h.Handle(ctx, bookingMessage(t, "evt-1", "booking.created.v1")))
	seen, err := inbox.Seen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, h.Handle(ctx, bookingMessage(t, "evt-1", "booking.created.v1")))
	assert.Equal(t, []string{"booked-dates:room1"}, cache.deleted)
	seen, _ = inbox.Seen(ctx, "evt-1")
	assert.True(t, seen)
}

type failingHandler struct{ calls int }

func (f *failingHandler) Handle(context.Context, *sarama.ConsumerMessage) error {
	f.calls++
	return errors.New("redis down")
}

type markRecorder struct {
	ctx    context.Context
	marked []int64
}

func (m *markRecorder) Claims() map[string][]int32               { return nil }
func (m *markRecorder) MemberID() string                         { return "m1" }
func (m *markRecorder) GenerationID() int32                      { return 1 }
func (m *markRecorder) MarkOffset(string, int32, int64, string)  {}
func (m *markRecorder) Commit()                                  {}
func (m *markRecorder) ResetOffset(string, int32, int64, string) {}
func (m *markRecorder) Context() context.Context                 { return m.ctx }
func (m *markRecorder) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	m.marked = append(m.marked, msg.Offset)
}

type staticClaim struct{ messages chan *sarama.ConsumerMessage }

func (c staticClaim) Topic() string                            { return "booking.events.v1" }
func (c staticClaim) Partition() int32                         { return 0 }
func (c staticClaim) InitialOffset() int64                     { return 0 }
func (c staticClaim) HighWaterMarkOffset() int64               { return 2 }
func (c staticClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumeClaimStopsAtFailedMessage(t *testing.T) {
	msgs := make(chan *sarama.ConsumerMessage, 2)
	msgs <- &sarama.ConsumerMessage{Offset: 0}
	msgs <- &sarama.ConsumerMessage{Offset: 1}
	close(msgs)

	handler := &failingHandler{}
	sess := &markRecorder{ctx: context.Background()}
	cgh := consumerGroupHandler{handler: handler, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := cgh.ConsumeClaim(sess, staticClaim{messages: msgs})
	require.Error(t, err)
	assert.Equal(t, 1, handler.calls)
	assert.Empty(t, sess.marked)
}

func TestBookingEventsHandlerSkipsGarbage(t *testing.T) {
	h := &BookingEventsHandler{Cache: &deleteRecorder{}}
	err := h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")})
	assert.NoError(t, err)
}
