package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medsched/clinic-agent/internal/booking"
	"github.com/medsched/clinic-agent/internal/knowledge"
	"github.com/medsched/clinic-agent/internal/observability/metrics"
	"github.com/medsched/clinic-agent/internal/scheduling"
	"github.com/medsched/clinic-agent/pkg/logging"
)

// Booker issues a booking after re-verifying the slot.
type Booker interface {
	Book(ctx context.Context, req booking.Request) (*booking.Booking, error)
}

// Engine is the dialogue state machine. It inspects the incoming message,
// answers FAQ-shaped questions via retrieval, and otherwise advances the
// caller-owned Context through the booking stages. The engine itself is
// stateless; all conversation state lives in the Context.
type Engine struct {
	booker       Booker
	retriever    knowledge.Retriever
	hours        scheduling.WorkingHours
	maxSuggested int
	topK         int
	metrics      *metrics.ConversationMetrics
	logger       *logging.Logger
}

// NewEngine constructs a dialogue engine. m may be nil.
func NewEngine(booker Booker, retriever knowledge.Retriever, hours scheduling.WorkingHours, maxSuggested, topK int, m *metrics.ConversationMetrics, logger *logging.Logger) *Engine {
	if booker == nil {
		panic("conversation: booker required")
	}
	if retriever == nil {
		panic("conversation: retriever required")
	}
	if hours.Start == "" || hours.End == "" {
		hours = scheduling.DefaultWorkingHours()
	}
	if maxSuggested <= 0 {
		maxSuggested = 5
	}
	if topK <= 0 {
		topK = 3
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		booker:       booker,
		retriever:    retriever,
		hours:        hours,
		maxSuggested: maxSuggested,
		topK:         topK,
		metrics:      m,
		logger:       logger,
	}
}

// HandleTurn processes one message and returns the reply plus the mutated
// context. All user-input problems become corrective replies; only
// collaborator and configuration failures surface as errors.
func (e *Engine) HandleTurn(ctx context.Context, message string, conv *Context) (string, error) {
	if conv == nil {
		return "", errors.New("conversation: context required")
	}

	// FAQ shortcut: a pure interrupt that never touches booking state.
	if isFAQMessage(message) {
		e.metrics.ObserveFAQShortcut()
		matches, err := e.retriever.Search(ctx, message, e.topK)
		if err != nil {
			return "", fmt.Errorf("conversation: faq retrieval: %w", err)
		}
		if len(matches) == 0 {
			return knowledge.SentinelNoFAQs, nil
		}
		return matches[0].Answer, nil
	}

	if !conv.Stage.Known() {
		// Only reachable when the caller resends a corrupted context.
		e.logger.Warn("unrecognized conversation stage", "stage", string(conv.Stage))
		return promptFallback, nil
	}
	stage := conv.Stage
	if stage == "" {
		stage = StageStart
	}
	e.metrics.ObserveTurn(string(stage))

	switch stage {
	case StageStart:
		conv.Stage = StageAwaitingType
		return promptAppointmentType, nil

	case StageAwaitingType:
		// The whole message is taken as the type, unvalidated; a bad type
		// surfaces as a duration lookup failure at the date stage.
		conv.AppointmentType = scheduling.ParseAppointmentType(message)
		conv.Stage = StageAwaitingDate
		return promptPreferredDate, nil

	case StageAwaitingDate:
		return e.handleDate(message, conv)

	case StageCollectingInfo:
		return e.handlePatientInfo(ctx, message, conv)

	case StageBooked:
		return promptAlreadyBooked, nil

	default:
		return promptFallback, nil
	}
}

// handleDate computes the open-day grid for the requested date. The booked
// interval source is not reachable from the dialogue path, so the day is
// treated as fully open here; the booking step re-verifies against the
// authoritative store.
func (e *Engine) handleDate(message string, conv *Context) (string, error) {
	date := strings.TrimSpace(message)

	slots, err := scheduling.GenerateSlots(date, conv.AppointmentType, e.hours, nil)
	switch {
	case errors.Is(err, scheduling.ErrInvalidDate):
		return promptBadDate, nil
	case errors.Is(err, scheduling.ErrUnknownAppointmentType):
		// The stored type turned out to be bogus; send the user back one
		// step to re-supply it.
		conv.AppointmentType = ""
		conv.Stage = StageAwaitingType
		return promptUnknownType, nil
	case err != nil:
		return "", err
	}

	var suggested []scheduling.Slot
	for _, s := range slots {
		if s.Available {
			suggested = append(suggested, s)
			if len(suggested) == e.maxSuggested {
				break
			}
		}
	}
	if len(suggested) == 0 {
		return promptNoSlots, nil
	}

	conv.PreferredDate = date
	conv.SuggestedSlots = suggested
	conv.Stage = StageCollectingInfo

	var b strings.Builder
	fmt.Fprintf(&b, "I found these available slots on %s:\n", date)
	for _, s := range suggested {
		fmt.Fprintf(&b, "- %s to %s\n", s.StartTime, s.EndTime)
	}
	b.WriteString(promptPatientInfo)
	return b.String(), nil
}

func (e *Engine) handlePatientInfo(ctx context.Context, message string, conv *Context) (string, error) {
	fields := parsePatientInfo(message)
	for _, key := range []string{"start_time", "name", "email", "phone"} {
		if fields[key] == "" {
			return promptMissingFields, nil
		}
	}

	patient := booking.Patient{
		Name:  fields["name"],
		Email: fields["email"],
		Phone: fields["phone"],
	}
	req := booking.Request{
		AppointmentType: conv.AppointmentType,
		Date:            conv.PreferredDate,
		StartTime:       fields["start_time"],
		Patient:         patient,
		Reason:          fields["reason"],
	}

	b, err := e.booker.Book(ctx, req)
	if err != nil {
		if errors.Is(err, booking.ErrSlotUnavailable) {
			return promptSlotTaken, nil
		}
		return "", err
	}

	conv.Patient = &patient
	conv.Booking = b
	conv.Stage = StageBooked
	return fmt.Sprintf("All set! Your appointment is confirmed. Confirmation code: %s", b.ConfirmationCode), nil
}

// parsePatientInfo reads semicolon-separated key:value pairs. The first
// colon splits key from value, so values may contain colons; entries with
// no colon are dropped silently.
func parsePatientInfo(message string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Split(message, ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}

func isFAQMessage(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range faqKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
