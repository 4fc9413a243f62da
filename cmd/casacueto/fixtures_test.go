package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casacueto/internal/infra/config"
	ginserver "casacueto/internal/infra/http/gin"
	"casacueto/internal/infra/obs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSeedBookingsServesBookedDates(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	cfg := config.Config{StorageMode: config.StorageMemory}
	app, err := buildApplication(context.Background(), cfg, logger, obs.NewMetrics())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bookings.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"a","roomCode":"room1","name":"Ana","email":"ana@example.com","guests":2,"checkin":"2025-10-30","checkout":"2025-11-02"},
		{"id":"bad","roomCode":"room1","name":"Ana","email":"ana@example.com","guests":2,"checkin":"nope","checkout":"2025-11-02"}
	]`), 0o600))
	ctx := context.Background()
	require.NoError(t, app.seedBookings(ctx, path, logger))
	require.NoError(t, app.seedBookings(ctx, path, logger), "reseeding replays through idempotency")
	assert.Contains(t, logs.String(), "fixture invalid")

	router := ginserver.NewRouter(nil, obs.Middleware{}, app.health, app.handlers)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/room1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"start":"2025-10-30T00:00:00Z","end":"2025-11-02T00:00:00Z"}]`, w.Body.String())
}

func TestSeedBookingsMissingFileIsSkipped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	app, err := buildApplication(context.Background(), config.Config{StorageMode: config.StorageMemory}, logger, obs.NewMetrics())
	require.NoError(t, err)
	assert.NoError(t, app.seedBookings(context.Background(), filepath.Join(t.TempDir(), "none.json"), logger))
	assert.Len(t, app.background, 1, "outbox relay runs even without kafka")
}
