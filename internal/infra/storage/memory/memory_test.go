package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "casacueto/internal/app/outbox"
	domainbooking "casacueto/internal/domain/booking"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func mustBooking(t *testing.T, id, room string, in, out time.Time) *domainbooking.Booking {
	t.Helper()
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:       domainbooking.BookingID(id),
		RoomCode: domainbooking.RoomCode(room),
		Name:     "Guest",
		Email:    "guest@example.com",
		Guests:   1,
		CheckIn:  in,
		CheckOut: out,
	})
	require.NoError(t, err)
	return b
}

func TestBookingRepositoryListByRoom(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, mustBooking(t, "b2", "room1", day(2025, time.November, 20), day(2025, time.November, 22))))
	require.NoError(t, repo.Save(ctx, mustBooking(t, "b1", "room1", day(2025, time.October, 30), day(2025, time.November, 2))))
	require.NoError(t, repo.Save(ctx, mustBooking(t, "b3", "room2", day(2025, time.November, 8), day(2025, time.November, 11))))

	got, err := repo.ListByRoom(ctx, "room1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domainbooking.BookingID("b1"), got[0].ID)
	assert.Equal(t, domainbooking.BookingID("b2"), got[1].ID)
	assert.Empty(t, got[0].PendingEvents())

	none, err := repo.ListByRoom(ctx, "room9")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.ListByRoom(ctx, " ")
	assert.ErrorIs(t, err, domainbooking.ErrRoomRequired)
	assert.Equal(t, 3, repo.Count())
}

func TestBookingRepositoryRejectsDuplicateID(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	b := mustBooking(t, "b1", "room1", day(2025, time.November, 1), day(2025, time.November, 2))
	require.NoError(t, repo.Save(ctx, b))
	assert.ErrorIs(t, repo.Save(ctx, b), ErrBookingExists)
}

func TestOutboxClaimLifecycle(t *testing.T) {
	box := NewOutbox()
	now := day(2025, time.November, 1)
	box.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "e1", Name: "booking.created"}))
	claimed, err := box.Claim(ctx, "w1")
	require.NoError(t, err)
	assert.Nil(t, claimed, "staged records are invisible until flush")

	require.NoError(t, box.Flush(ctx))
	claimed, err = box.Claim(ctx, "w1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, "e1", claimed.ID)

	again, err := box.Claim(ctx, "w2")
	require.NoError(t, err)
	assert.Nil(t, again)

	require.NoError(t, box.MarkFailed(ctx, "e1", now.Add(time.Second), "broker down"))
	again, _ = box.Claim(ctx, "w2")
	assert.Nil(t, again, "retry not due yet")

	now = now.Add(2 * time.Second)
	again, _ = box.Claim(ctx, "w2")
	require.NotNil(t, again)
	assert.Equal(t, 1, again.Attempts)

	require.NoError(t, box.MarkSent(ctx, "e1"))
	assert.Equal(t, 0, box.Pending())
}

func TestInboxSeen(t *testing.T) {
	inbox := NewInbox()
	ctx := context.Background()
	seen, err := inbox.Seen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)
	seen, _ = inbox.Seen(ctx, "evt-1")
	assert.False(t, seen, "checking does not mark")

	require.NoError(t, inbox.Mark(ctx, "evt-1"))
	require.NoError(t, inbox.Mark(ctx, "evt-1"))
	seen, _ = inbox.Seen(ctx, "evt-1")
	assert.True(t, seen)
}
