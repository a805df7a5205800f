package booking

import (
	"strings"
	"testing"

	"github.com/medsched/clinic-agent/internal/scheduling"
)

func testRequest() Request {
	return Request{
		AppointmentType: scheduling.TypeConsultation,
		Date:            "2025-11-08",
		StartTime:       "10:00",
		Patient:         Patient{Name: "John Doe", Email: "john@example.com", Phone: "+15550000"},
		Reason:          "annual check",
	}
}

func TestIssueShapesBooking(t *testing.T) {
	b, err := NewIssuer().Issue(testRequest())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if b.Status != StatusConfirmed {
		t.Errorf("status = %q, want confirmed", b.Status)
	}
	if !strings.HasPrefix(b.BookingID, "APPT-") || len(b.BookingID) != len("APPT-")+8 {
		t.Errorf("booking id = %q, want APPT- prefix with 8 hex chars", b.BookingID)
	}
	if len(b.ConfirmationCode) != 6 {
		t.Errorf("confirmation code = %q, want 6 chars", b.ConfirmationCode)
	}
	for _, c := range b.ConfirmationCode {
		if !strings.ContainsRune(confirmationAlphabet, c) {
			t.Errorf("confirmation code contains %q outside alphabet", c)
		}
	}
	if b.Details.Patient.Name != "John Doe" || b.Details.StartTime != "10:00" || b.Details.Reason != "annual check" {
		t.Errorf("details do not echo request: %+v", b.Details)
	}
}

func TestIssueGeneratesFreshTokens(t *testing.T) {
	issuer := NewIssuer()
	seenIDs := map[string]bool{}
	seenCodes := map[string]bool{}
	for i := 0; i < 50; i++ {
		b, err := issuer.Issue(testRequest())
		if err != nil {
			t.Fatalf("Issue returned error: %v", err)
		}
		if seenIDs[b.BookingID] {
			t.Fatalf("duplicate booking id %q", b.BookingID)
		}
		seenIDs[b.BookingID] = true
		seenCodes[b.ConfirmationCode] = true
		if b.ConfirmationCode == b.BookingID {
			t.Fatal("confirmation code must be independent of booking id")
		}
	}
	// Codes are not required to be unique, but 50 collisions would mean a
	// broken generator.
	if len(seenCodes) < 2 {
		t.Fatalf("expected varied confirmation codes, got %d distinct", len(seenCodes))
	}
}
