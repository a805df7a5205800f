package conversation

// Stage is the discrete step of a conversation's progress through the
// booking flow. The set is closed; the engine dispatches exhaustively and
// treats anything else as caller-corrupted state.
type Stage string

const (
	StageStart          Stage = "start"
	StageAwaitingType   Stage = "awaiting_type"
	StageAwaitingDate   Stage = "awaiting_date"
	StageCollectingInfo Stage = "collecting_patient_info"
	StageBooked         Stage = "booked"
)

// Known reports whether s is one of the defined stages. The empty string
// counts as StageStart so a zero-value context begins a fresh conversation.
func (s Stage) Known() bool {
	switch s {
	case "", StageStart, StageAwaitingType, StageAwaitingDate, StageCollectingInfo, StageBooked:
		return true
	}
	return false
}
