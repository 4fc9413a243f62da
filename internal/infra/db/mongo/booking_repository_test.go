package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "casacueto/internal/domain/booking"
)

func TestBookingDocumentRoundTrip(t *testing.T) {
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        "b1",
		RoomCode:  "room1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Guests:    3,
		CheckIn:   time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, time.October, 20, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	doc := newBookingDocument(b)
	assert.Equal(t, "room1", doc.RoomCode)

	got := doc.toAggregate()
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.CheckIn, got.CheckIn)
	assert.Equal(t, b.CheckOut, got.CheckOut)
	assert.Equal(t, b.CreatedAt, got.CreatedAt)
	assert.Empty(t, got.PendingEvents())
}
