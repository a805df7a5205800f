package conversation

// Static prompt texts for the rule-based booking flow.
const (
	promptAppointmentType = "What type of appointment would you like? (consultation, followup, physical, specialist)"
	promptPreferredDate   = "Do you have a preferred date? Please use YYYY-MM-DD."
	promptNoSlots         = "No available slots on that date. Would you like me to look at other dates?"
	promptPatientInfo     = "Which one works for you? Please reply in the format: start_time:10:00; name:John Doe; email:john@example.com; phone:+1555..."
	promptMissingFields   = "Please provide start_time, name, email and phone in the format: start_time:10:00; name:John Doe; email:...; phone:..."
	promptSlotTaken       = "The selected slot is no longer available. Please choose another slot."
	promptAlreadyBooked   = "You already have a booking. Do you want to reschedule or cancel?"
	promptBadDate         = "I couldn't read that date. Please use YYYY-MM-DD, e.g. 2025-11-08."
	promptUnknownType     = "I don't recognize that appointment type. Please pick one of: consultation, followup, physical, specialist."
	promptFallback        = "Sorry, I didn't understand that. Can you rephrase?"
)

// faqKeywords routes informational questions to retrieval before any stage
// dispatch. Matching is case-insensitive substring containment.
var faqKeywords = []string{"insurance", "hours", "parking", "cancel", "covid"}
