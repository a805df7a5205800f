package scheduling

import "time"

// GenerateSlots produces the ordered slot grid for one date: contiguous,
// non-overlapping intervals of the type's fixed duration, covering
// [hours.Start, hours.End) from the opening time. A trailing remainder
// shorter than one duration is dropped. A slot is unavailable when its
// half-open span overlaps any booked interval; a booking that ends exactly
// at a slot's start or starts exactly at its end does not block it.
//
// Pure and deterministic; safe for concurrent use.
func GenerateSlots(date string, appointmentType AppointmentType, hours WorkingHours, booked []Interval) ([]Slot, error) {
	duration, err := appointmentType.Duration()
	if err != nil {
		return nil, err
	}

	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	windowStart, err := parseClock(day, hours.Start)
	if err != nil {
		return nil, err
	}
	windowEnd, err := parseClock(day, hours.End)
	if err != nil {
		return nil, err
	}

	type span struct{ start, end time.Time }
	bookedSpans := make([]span, 0, len(booked))
	for _, iv := range booked {
		s, err := parseClock(day, iv.Start)
		if err != nil {
			return nil, err
		}
		e, err := parseClock(day, iv.End)
		if err != nil {
			return nil, err
		}
		bookedSpans = append(bookedSpans, span{start: s, end: e})
	}

	var slots []Slot
	for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(duration) {
		next := cursor.Add(duration)

		available := true
		for _, b := range bookedSpans {
			if !(next.Equal(b.start) || next.Before(b.start) || cursor.Equal(b.end) || cursor.After(b.end)) {
				available = false
				break
			}
		}

		slots = append(slots, Slot{
			StartTime: formatClock(cursor),
			EndTime:   formatClock(next),
			Available: available,
		})
	}

	return slots, nil
}
