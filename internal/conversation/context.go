package conversation

import (
	"github.com/medsched/clinic-agent/internal/booking"
	"github.com/medsched/clinic-agent/internal/scheduling"
)

// Context carries one conversation's state across turns. It is plain data
// owned by the caller: passed in with every message, mutated by the engine,
// and returned for the caller to persist and resend. The engine never keeps
// a copy, so independent conversations can be processed concurrently.
type Context struct {
	Stage           Stage                      `json:"stage,omitempty"`
	AppointmentType scheduling.AppointmentType `json:"appointment_type,omitempty"`
	PreferredDate   string                     `json:"preferred_date,omitempty"`
	SuggestedSlots  []scheduling.Slot          `json:"suggested_slots,omitempty"`
	Patient         *booking.Patient           `json:"patient,omitempty"`
	Booking         *booking.Booking           `json:"booking,omitempty"`
}
