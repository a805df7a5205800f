package scheduling

import (
	"context"
	"sync"
)

// Store is the authoritative source of per-date schedules: working hours and
// already-booked intervals. Dates with no entry fall back to the service's
// default working hours and an open day.
type Store interface {
	DaySchedule(ctx context.Context, date string) (DaySchedule, error)
	AddBookedInterval(ctx context.Context, date string, iv Interval) error
}

// MemoryStore keeps schedules in process memory. Used for tests and for
// deployments without Redis.
type MemoryStore struct {
	mu   sync.RWMutex
	days map[string]DaySchedule
}

// NewMemoryStore creates an empty in-memory schedule store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{days: make(map[string]DaySchedule)}
}

// SetWorkingHours overrides the open window for a date.
func (s *MemoryStore) SetWorkingHours(date string, hours WorkingHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.days[date]
	day.Hours = hours
	s.days[date] = day
}

// DaySchedule returns the stored schedule for the date, zero when absent.
func (s *MemoryStore) DaySchedule(ctx context.Context, date string) (DaySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := s.days[date]
	out := DaySchedule{Hours: day.Hours, Booked: make([]Interval, len(day.Booked))}
	copy(out.Booked, day.Booked)
	return out, nil
}

// AddBookedInterval records a booked range for the date.
func (s *MemoryStore) AddBookedInterval(ctx context.Context, date string, iv Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.days[date]
	day.Booked = append(day.Booked, iv)
	s.days[date] = day
	return nil
}
