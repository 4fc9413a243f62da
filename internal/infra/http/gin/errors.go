package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"casacueto/internal/app/middleware"
	domainbooking "casacueto/internal/domain/booking"
	"casacueto/internal/domain/shared/daterange"
)

var clientErrors = []error{
	middleware.ErrValidation,
	daterange.ErrInvalidDay,
	daterange.ErrInvalidInterval,
	domainbooking.ErrRoomRequired,
	domainbooking.ErrNameRequired,
	domainbooking.ErrInvalidEmail,
	domainbooking.ErrInvalidGuests,
	domainbooking.ErrInvalidStay,
}

// writeError answers {error: msg}; request problems get 400, the rest 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			status = http.StatusBadRequest
			break
		}
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
