package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	confirmationLength   = 6
	bookingIDPrefix      = "APPT-"
)

// Issuer mints bookings. It performs no availability or double-booking
// check; callers must re-verify the slot immediately before issuing.
type Issuer struct{}

// NewIssuer creates a booking issuer.
func NewIssuer() *Issuer {
	return &Issuer{}
}

// Issue produces a confirmed Booking with a fresh booking id and an
// independently generated confirmation code.
func (i *Issuer) Issue(req Request) (*Booking, error) {
	code, err := confirmationCode(confirmationLength)
	if err != nil {
		return nil, fmt.Errorf("booking: generate confirmation code: %w", err)
	}
	return &Booking{
		BookingID:        newBookingID(),
		Status:           StatusConfirmed,
		ConfirmationCode: code,
		Details: Details{
			AppointmentType: req.AppointmentType,
			Date:            req.Date,
			StartTime:       req.StartTime,
			Patient:         req.Patient,
			Reason:          req.Reason,
		},
	}, nil
}

func newBookingID() string {
	id := uuid.New()
	return bookingIDPrefix + strings.ToUpper(hex.EncodeToString(id[:4]))
}

func confirmationCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = confirmationAlphabet[int(b)%len(confirmationAlphabet)]
	}
	return string(out), nil
}
