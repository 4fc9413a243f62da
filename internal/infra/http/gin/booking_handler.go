package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"casacueto/internal/app/commands"
	"casacueto/internal/app/dto"
	bookingapp "casacueto/internal/app/handlers/booking"
	"casacueto/internal/domain/shared/daterange"
)

const IdempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	Commands commands.Bus
}

type createBookingRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Guests   int    `json:"guests"`
	CheckIn  string `json:"checkin"`
	CheckOut string `json:"checkout"`
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, errIn := daterange.ParseDay(req.CheckIn)
	checkOut, errOut := daterange.ParseDay(req.CheckOut)
	if err := errors.Join(errIn, errOut); err != nil {
		writeError(c, err)
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       uuid.NewString(),
		RoomCode:        req.RoomCode,
		Name:            req.Name,
		Email:           req.Email,
		Guests:          req.Guests,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		IdempotencyKeyV: c.GetHeader(IdempotencyHeader),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.BookingCreated](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ BookingHTTP = BookingHandler{}
