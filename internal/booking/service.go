package booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/medsched/clinic-agent/internal/observability/metrics"
	"github.com/medsched/clinic-agent/internal/scheduling"
	"github.com/medsched/clinic-agent/pkg/logging"
)

var bookingTracer trace.Tracer = otel.Tracer("clinic.internal.booking")

// ErrSlotUnavailable reports that the requested start time is absent from or
// taken on the day's grid.
var ErrSlotUnavailable = errors.New("booking: slot unavailable")

// AvailabilityChecker re-verifies the requested slot against current
// availability immediately before issuance.
type AvailabilityChecker interface {
	Availability(ctx context.Context, date string, appointmentType scheduling.AppointmentType) ([]scheduling.Slot, error)
}

// IntervalRecorder marks the booked range so later availability queries
// exclude it.
type IntervalRecorder interface {
	AddBookedInterval(ctx context.Context, date string, iv scheduling.Interval) error
}

// Repository persists issued bookings. Optional; nil disables persistence.
type Repository interface {
	SaveConfirmed(ctx context.Context, b *Booking) error
}

// Service coordinates the availability re-check, issuance, and recording of
// a booking.
type Service struct {
	checker  AvailabilityChecker
	recorder IntervalRecorder
	issuer   *Issuer
	repo     Repository
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService constructs a booking service. repo and m may be nil.
func NewService(checker AvailabilityChecker, recorder IntervalRecorder, issuer *Issuer, repo Repository, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if checker == nil {
		panic("booking: availability checker required")
	}
	if recorder == nil {
		panic("booking: interval recorder required")
	}
	if issuer == nil {
		issuer = NewIssuer()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		checker:  checker,
		recorder: recorder,
		issuer:   issuer,
		repo:     repo,
		metrics:  m,
		logger:   logger,
	}
}

// Book re-verifies the slot, issues the booking, records the interval, and
// persists the result when a repository is configured. Returns
// ErrSlotUnavailable when the start time is not on the grid or already
// taken.
func (s *Service) Book(ctx context.Context, req Request) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.appointment_type", string(req.AppointmentType)),
		attribute.String("clinic.date", req.Date),
		attribute.String("clinic.start_time", req.StartTime),
	)

	slots, err := s.checker.Availability(ctx, req.Date, req.AppointmentType)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var found *scheduling.Slot
	for i := range slots {
		if slots[i].StartTime == req.StartTime {
			found = &slots[i]
			break
		}
	}
	if found == nil || !found.Available {
		s.metrics.ObserveBooking("rejected")
		return nil, fmt.Errorf("%w: %s at %s", ErrSlotUnavailable, req.Date, req.StartTime)
	}

	b, err := s.issuer.Issue(req)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("failed")
		return nil, err
	}

	iv := scheduling.Interval{Start: found.StartTime, End: found.EndTime}
	if err := s.recorder.AddBookedInterval(ctx, req.Date, iv); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("failed")
		return nil, fmt.Errorf("booking: record interval: %w", err)
	}

	if s.repo != nil {
		if err := s.repo.SaveConfirmed(ctx, b); err != nil {
			span.RecordError(err)
			s.metrics.ObserveBooking("failed")
			return nil, fmt.Errorf("booking: persist: %w", err)
		}
	}

	s.metrics.ObserveBooking(b.Status)
	s.logger.Info("booking issued",
		"booking_id", b.BookingID,
		"appointment_type", string(req.AppointmentType),
		"date", req.Date,
		"start_time", req.StartTime,
	)
	return b, nil
}
