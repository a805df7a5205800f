package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const insertBookingSQL = `INSERT INTO bookings
	(id, booking_ref, confirmation_code, appointment_type, date, start_time,
	 patient_name, patient_email, patient_phone, reason, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// PostgresRepository persists issued bookings in Postgres.
type PostgresRepository struct {
	db pgxExecutor
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithExecutor allows injecting mocks for tests.
func NewPostgresRepositoryWithExecutor(db pgxExecutor) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveConfirmed inserts a confirmed booking row.
func (r *PostgresRepository) SaveConfirmed(ctx context.Context, b *Booking) error {
	_, err := r.db.Exec(ctx, insertBookingSQL,
		uuid.New(),
		b.BookingID,
		b.ConfirmationCode,
		string(b.Details.AppointmentType),
		b.Details.Date,
		b.Details.StartTime,
		b.Details.Patient.Name,
		b.Details.Patient.Email,
		b.Details.Patient.Phone,
		b.Details.Reason,
		b.Status,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("booking: insert confirmed: %w", err)
	}
	return nil
}

// MemoryRepository keeps issued bookings in memory, for tests and for
// deployments without Postgres.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings []*Booking
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveConfirmed appends the booking.
func (r *MemoryRepository) SaveConfirmed(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b)
	return nil
}

// All returns the stored bookings in insertion order.
func (r *MemoryRepository) All() []*Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}
