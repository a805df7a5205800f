package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/medsched/clinic-agent/internal/scheduling"
	"github.com/medsched/clinic-agent/pkg/logging"
)

// Handler exposes booking over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("booking: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Book handles POST /api/appointments/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.AppointmentType = scheduling.ParseAppointmentType(string(req.AppointmentType))

	if msg := validateRequest(req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	b, err := h.service.Book(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotUnavailable):
			http.Error(w, "Requested slot is not available", http.StatusConflict)
		case errors.Is(err, scheduling.ErrUnknownAppointmentType),
			errors.Is(err, scheduling.ErrInvalidDate),
			errors.Is(err, scheduling.ErrInvalidClock):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("booking failed", "error", err)
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(b); err != nil {
		h.logger.Error("failed to write booking response", "error", err)
	}
}

func validateRequest(req Request) string {
	var missing []string
	if req.Date == "" {
		missing = append(missing, "date")
	}
	if req.StartTime == "" {
		missing = append(missing, "start_time")
	}
	if req.Patient.Name == "" {
		missing = append(missing, "patient.name")
	}
	if req.Patient.Email == "" {
		missing = append(missing, "patient.email")
	}
	if req.Patient.Phone == "" {
		missing = append(missing, "patient.phone")
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	return ""
}
