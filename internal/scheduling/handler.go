package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medsched/clinic-agent/pkg/logging"
)

// Handler exposes availability queries over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an availability handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("scheduling: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// AvailabilityResponse is the wire shape for a day's slot grid.
type AvailabilityResponse struct {
	Date           string `json:"date"`
	AvailableSlots []Slot `json:"available_slots"`
}

// Availability handles GET /api/appointments/availability.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := ParseDate(date); err != nil {
		http.Error(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	appointmentType := ParseAppointmentType(r.URL.Query().Get("appointment_type"))

	slots, err := h.service.Availability(r.Context(), date, appointmentType)
	if err != nil {
		if errors.Is(err, ErrUnknownAppointmentType) {
			http.Error(w, "Unknown appointment type", http.StatusBadRequest)
			return
		}
		h.logger.Error("availability query failed", "date", date, "error", err)
		http.Error(w, "Failed to compute availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AvailabilityResponse{Date: date, AvailableSlots: slots}); err != nil {
		h.logger.Error("failed to write availability response", "error", err)
	}
}
