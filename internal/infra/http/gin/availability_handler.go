package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"casacueto/internal/app/dto"
	availabilityapp "casacueto/internal/app/handlers/availability"
	"casacueto/internal/app/queries"
	"casacueto/internal/domain/shared/daterange"
)

var openEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// BookedDates lists the inclusive {start, end} ranges booked for a room.
// Optional from/to (YYYY-MM-DD) keep only ranges touching that window.
func (h AvailabilityHandler) BookedDates(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	window, filtered, err := windowParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	query := availabilityapp.ListBookedDatesQuery{RoomCode: c.Param("roomCode")}
	result, err := queries.Ask[availabilityapp.ListBookedDatesQuery, []dto.BookedRange](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	if result == nil {
		result = []dto.BookedRange{}
	}
	if filtered {
		result = availabilityapp.Within(result, window)
	}
	c.JSON(http.StatusOK, result)
}

func windowParam(c *gin.Context) (daterange.Interval, bool, error) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" && rawTo == "" {
		return daterange.Interval{}, false, nil
	}
	window := daterange.Interval{Start: time.Unix(0, 0).UTC(), End: openEnd}
	var errFrom, errTo error
	if rawFrom != "" {
		window.Start, errFrom = daterange.ParseDay(rawFrom)
	}
	if rawTo != "" {
		window.End, errTo = daterange.ParseDay(rawTo)
	}
	if err := errors.Join(errFrom, errTo); err != nil {
		return daterange.Interval{}, false, err
	}
	if err := window.Validate(); err != nil {
		return daterange.Interval{}, false, err
	}
	return window, true, nil
}

var _ AvailabilityHTTP = AvailabilityHandler{}
