package bookingsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/shared/daterange"
)

var (
	ErrUnexpectedStatus = errors.New("bookingsapi: unexpected status")
	ErrMalformedBody    = errors.New("bookingsapi: malformed response")
)

// rangeEntry keeps dates raw so plain dates and timestamps both parse.
type rangeEntry struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CreateBookingRequest struct {
	RoomCode string
	Name     string
	Email    string
	Guests   int
	CheckIn  time.Time
	CheckOut time.Time
	// IdempotencyKey is sent as the Idempotency-Key header when set.
	IdempotencyKey string
}

type Booking struct {
	ID       string    `json:"id"`
	RoomCode string    `json:"roomCode"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Guests   int       `json:"guests"`
	CheckIn  time.Time `json:"checkin"`
	CheckOut time.Time `json:"checkout"`
}

type CreateBookingResponse struct {
	Message string  `json:"message"`
	Booking Booking `json:"booking"`
}

// Client talks to the bookings API. It is the availability source of the
// calendar front-end.
type Client struct {
	base string
	h    *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		h:    &http.Client{Timeout: timeout},
	}
}

// BookedIntervals calls GET /api/bookings/{room}.
func (c *Client) BookedIntervals(ctx context.Context, room availability.RoomID) ([]daterange.Interval, error) {
	u := c.base + "/api/bookings/" + url.PathEscape(string(room))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.h.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(u, resp)
	}

	var entries []rangeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	out := make([]daterange.Interval, 0, len(entries))
	for i, e := range entries {
		start, err := daterange.ParseDay(e.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d start: %v", ErrMalformedBody, i, err)
		}
		end, err := daterange.ParseDay(e.End)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d end: %v", ErrMalformedBody, i, err)
		}
		out = append(out, daterange.Interval{Start: start, End: end})
	}
	return out, nil
}

// CreateBooking calls POST /api/bookings. The server's {error} message is
// surfaced on rejection.
func (c *Client) CreateBooking(ctx context.Context, in CreateBookingRequest) (CreateBookingResponse, error) {
	body, err := json.Marshal(map[string]any{
		"roomCode": in.RoomCode,
		"name":     in.Name,
		"email":    in.Email,
		"guests":   in.Guests,
		"checkin":  daterange.Day(in.CheckIn).Format(daterange.DayLayout),
		"checkout": daterange.Day(in.CheckOut).Format(daterange.DayLayout),
	})
	if err != nil {
		return CreateBookingResponse{}, err
	}
	u := c.base + "/api/bookings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return CreateBookingResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if in.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", in.IdempotencyKey)
	}
	resp, err := c.h.Do(req)
	if err != nil {
		return CreateBookingResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return CreateBookingResponse{}, statusError(u, resp)
	}
	var out CreateBookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CreateBookingResponse{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return out, nil
}

func statusError(u string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}
	return fmt.Errorf("%w: %s returned %d: %s", ErrUnexpectedStatus, u, resp.StatusCode, msg)
}

var _ availability.Source = (*Client)(nil)
