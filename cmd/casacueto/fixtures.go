package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"casacueto/internal/app/commands"
	"casacueto/internal/app/dto"
	bookingapp "casacueto/internal/app/handlers/booking"
	"casacueto/internal/domain/shared/daterange"
)

type bookingFixture struct {
	ID       string `json:"id"`
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Guests   int    `json:"guests"`
	CheckIn  string `json:"checkin"`
	CheckOut string `json:"checkout"`
}

// seedBookings replays fixture bookings through the command bus. Each
// fixture id doubles as the idempotency key, so restarts against a
// persistent store do not duplicate them.
func (a *application) seedBookings(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("booking fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("booking fixtures file empty", "path", path)
		return nil
	}
	var fixtures []bookingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	imported := 0
	for _, fx := range fixtures {
		checkIn, errIn := daterange.ParseDay(fx.CheckIn)
		checkOut, errOut := daterange.ParseDay(fx.CheckOut)
		if err := errors.Join(errIn, errOut); err != nil {
			logger.Error("fixture invalid", "fixture_id", fx.ID, "error", err)
			continue
		}
		cmd := bookingapp.CreateBookingCommand{
			CommandID:       fx.ID,
			RoomCode:        fx.RoomCode,
			Name:            fx.Name,
			Email:           fx.Email,
			Guests:          fx.Guests,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			IdempotencyKeyV: "fixture:" + fx.ID,
		}
		if _, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.BookingCreated](ctx, a.commands, cmd); err != nil {
			logger.Error("cannot store fixture booking", "fixture_id", fx.ID, "error", err)
			continue
		}
		imported++
	}
	logger.Info("booking fixtures imported", "path", path, "count", imported)
	return nil
}

func fixturesPath(configured string) string {
	if configured != "" {
		return configured
	}
	candidates := []string{
		filepath.Join("data", "bookings.json"),
		filepath.Join("..", "..", "data", "bookings.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
