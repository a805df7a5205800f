package scheduling

import (
	"context"

	"github.com/medsched/clinic-agent/pkg/logging"
)

// Service answers availability queries against the schedule store.
type Service struct {
	store        Store
	defaultHours WorkingHours
	logger       *logging.Logger
}

// NewService constructs an availability service.
func NewService(store Store, defaultHours WorkingHours, logger *logging.Logger) *Service {
	if store == nil {
		panic("scheduling: store required")
	}
	if defaultHours.Start == "" || defaultHours.End == "" {
		defaultHours = DefaultWorkingHours()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, defaultHours: defaultHours, logger: logger}
}

// Availability returns the full slot grid for the date, honoring stored
// working hours and excluding intervals already booked through the store.
func (s *Service) Availability(ctx context.Context, date string, appointmentType AppointmentType) ([]Slot, error) {
	day, err := s.store.DaySchedule(ctx, date)
	if err != nil {
		return nil, err
	}
	hours := day.Hours
	if hours.Start == "" || hours.End == "" {
		hours = s.defaultHours
	}

	slots, err := GenerateSlots(date, appointmentType, hours, day.Booked)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("availability computed",
		"date", date,
		"appointment_type", string(appointmentType),
		"slots", len(slots),
	)
	return slots, nil
}
