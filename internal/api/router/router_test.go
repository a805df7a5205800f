package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medsched/clinic-agent/internal/booking"
	"github.com/medsched/clinic-agent/internal/scheduling"
	"github.com/medsched/clinic-agent/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()

	store := scheduling.NewMemoryStore()
	schedService := scheduling.NewService(store, scheduling.DefaultWorkingHours(), logger)
	bookService := booking.NewService(schedService, store, booking.NewIssuer(), nil, nil, logger)

	return New(&Config{
		Logger:            logger,
		SchedulingHandler: scheduling.NewHandler(schedService, logger),
		BookingHandler:    booking.NewHandler(bookService, logger),
	})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestAvailabilityRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/availability?date=2025-11-08&appointment_type=consultation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp scheduling.AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "2025-11-08", resp.Date)
	require.Len(t, resp.AvailableSlots, 16)
}

func TestBookRoute(t *testing.T) {
	r := newTestRouter(t)

	payload, err := json.Marshal(booking.Request{
		AppointmentType: scheduling.TypeConsultation,
		Date:            "2025-11-08",
		StartTime:       "10:00",
		Patient: booking.Patient{
			Name:  "John Doe",
			Email: "john@example.com",
			Phone: "+15551234",
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/book", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var b booking.Booking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	require.Equal(t, booking.StatusConfirmed, b.Status)

	// The booked interval is now excluded from availability.
	req = httptest.NewRequest(http.MethodGet, "/api/appointments/availability?date=2025-11-08&appointment_type=consultation", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp scheduling.AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	for _, s := range resp.AvailableSlots {
		if s.StartTime == "10:00" {
			require.False(t, s.Available)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationRoutesAbsentWhenUnconfigured(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/agent/message", bytes.NewReader([]byte(`{"message":"hi"}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
