package booking

import "github.com/medsched/clinic-agent/internal/scheduling"

// Patient identifies who the appointment is for.
type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Request is a fully-validated booking request.
type Request struct {
	AppointmentType scheduling.AppointmentType `json:"appointment_type"`
	Date            string                     `json:"date"`       // YYYY-MM-DD
	StartTime       string                     `json:"start_time"` // HH:MM
	Patient         Patient                    `json:"patient"`
	Reason          string                     `json:"reason,omitempty"`
}

// Details echoes the originating request on the issued booking.
type Details struct {
	AppointmentType scheduling.AppointmentType `json:"appointment_type"`
	Date            string                     `json:"date"`
	StartTime       string                     `json:"start_time"`
	Patient         Patient                    `json:"patient"`
	Reason          string                     `json:"reason,omitempty"`
}

const (
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Booking is the outcome of a successful booking request. Immutable once
// issued; the caller owns persistence.
type Booking struct {
	BookingID        string  `json:"booking_id"`
	Status           string  `json:"status"`
	ConfirmationCode string  `json:"confirmation_code"`
	Details          Details `json:"details"`
}
