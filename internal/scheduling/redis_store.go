package scheduling

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	bookedKeyPrefix = "schedule:booked:"
	hoursKeyPrefix  = "schedule:hours:"
)

// RedisStore persists per-date schedules in Redis: booked intervals as a
// list of "HH:MM-HH:MM" values, working hours as a hash with start/end
// fields.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed schedule store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("scheduling: redis client cannot be nil")
	}
	return &RedisStore{client: client}
}

// DaySchedule loads working hours and booked intervals for the date.
func (s *RedisStore) DaySchedule(ctx context.Context, date string) (DaySchedule, error) {
	var day DaySchedule

	hours, err := s.client.HGetAll(ctx, hoursKey(date)).Result()
	if err != nil {
		return DaySchedule{}, fmt.Errorf("scheduling: load working hours: %w", err)
	}
	day.Hours = WorkingHours{Start: hours["start"], End: hours["end"]}

	raw, err := s.client.LRange(ctx, bookedKey(date), 0, -1).Result()
	if err != nil {
		return DaySchedule{}, fmt.Errorf("scheduling: load booked intervals: %w", err)
	}
	for _, entry := range raw {
		start, end, ok := strings.Cut(entry, "-")
		if !ok {
			return DaySchedule{}, fmt.Errorf("scheduling: malformed booked interval %q for %s", entry, date)
		}
		day.Booked = append(day.Booked, Interval{Start: start, End: end})
	}
	return day, nil
}

// AddBookedInterval appends a booked range to the date's list.
func (s *RedisStore) AddBookedInterval(ctx context.Context, date string, iv Interval) error {
	entry := iv.Start + "-" + iv.End
	if err := s.client.RPush(ctx, bookedKey(date), entry).Err(); err != nil {
		return fmt.Errorf("scheduling: record booked interval: %w", err)
	}
	return nil
}

// SetWorkingHours stores the open window for a date.
func (s *RedisStore) SetWorkingHours(ctx context.Context, date string, hours WorkingHours) error {
	if err := s.client.HSet(ctx, hoursKey(date), "start", hours.Start, "end", hours.End).Err(); err != nil {
		return fmt.Errorf("scheduling: store working hours: %w", err)
	}
	return nil
}

func bookedKey(date string) string {
	return bookedKeyPrefix + date
}

func hoursKey(date string) string {
	return hoursKeyPrefix + date
}
