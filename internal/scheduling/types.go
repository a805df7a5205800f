package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AppointmentType identifies the kind of visit and determines slot duration.
type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "followup"
	TypePhysical     AppointmentType = "physical"
	TypeSpecialist   AppointmentType = "specialist"
)

// appointmentDurations is the closed set of known visit lengths. An
// appointment type outside this map is a configuration error, never a
// silent default.
var appointmentDurations = map[AppointmentType]time.Duration{
	TypeConsultation: 30 * time.Minute,
	TypeFollowUp:     15 * time.Minute,
	TypePhysical:     45 * time.Minute,
	TypeSpecialist:   60 * time.Minute,
}

var (
	ErrUnknownAppointmentType = errors.New("scheduling: unknown appointment type")
	ErrInvalidDate            = errors.New("scheduling: invalid date")
	ErrInvalidClock           = errors.New("scheduling: invalid time")
)

// ParseAppointmentType normalizes raw user input into an AppointmentType.
// It does not validate against the known set; an unrecognized type surfaces
// as ErrUnknownAppointmentType when its duration is looked up.
func ParseAppointmentType(raw string) AppointmentType {
	return AppointmentType(strings.ToLower(strings.TrimSpace(raw)))
}

// Duration returns the fixed slot length for the type.
func (t AppointmentType) Duration() (time.Duration, error) {
	d, ok := appointmentDurations[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAppointmentType, string(t))
	}
	return d, nil
}

// KnownAppointmentTypes lists the valid types in a stable order, for
// user-facing prompts.
func KnownAppointmentTypes() []AppointmentType {
	return []AppointmentType{TypeConsultation, TypeFollowUp, TypePhysical, TypeSpecialist}
}

// Slot is one bookable interval of a day, minute precision, local wall clock.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// Interval is a half-open [Start, End) booked range in HH:MM form.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours is the daily open window slots are generated within.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultWorkingHours applies when a date has no stored schedule.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{Start: "09:00", End: "17:00"}
}

// DaySchedule is the stored picture of a single calendar date.
type DaySchedule struct {
	Hours  WorkingHours `json:"working_hours"`
	Booked []Interval   `json:"booked"`
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ParseDate validates a YYYY-MM-DD literal.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func parseClock(day time.Time, s string) (time.Time, error) {
	c, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

func formatClock(t time.Time) string {
	return t.Format(clockLayout)
}
