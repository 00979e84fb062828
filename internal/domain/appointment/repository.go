package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// Find* methods return (nil, nil) when nothing matches.
type Repository interface {
	// -------- Unit --------
	FindUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	FindUnitByInstance(ctx context.Context, instance string) (*models.Unit, error)

	// -------- Business hours --------
	FindBusinessHours(ctx context.Context, userID uuid.UUID, dayOfWeek int) (*models.BusinessHours, error)
	FindBusinessSettings(ctx context.Context, userID uuid.UUID) (*models.BusinessSettings, error)
	ListBusinessHours(ctx context.Context, userID uuid.UUID) ([]models.BusinessHours, error)
	ReplaceBusinessHours(ctx context.Context, userID uuid.UUID, hours []models.BusinessHours) error

	// -------- Roster --------
	// nameFilter is a case-insensitive substring; empty matches all.
	ListActiveBarbers(ctx context.Context, unitID uuid.UUID, nameFilter string) ([]models.Barber, error)
	ListActiveServices(ctx context.Context, unitID uuid.UUID) ([]models.Service, error)
	FindActiveBarber(ctx context.Context, unitID uuid.UUID, name string) (*models.Barber, error)
	FindActiveService(ctx context.Context, unitID uuid.UUID, name string) (*models.Service, error)

	// -------- Appointment (read) --------
	// Live appointments of the unit starting within [start, end].
	ListAppointmentsForDay(ctx context.Context, unitID uuid.UUID, start, end time.Time) ([]models.Appointment, error)
	// Live appointments of the barber intersecting [start, end).
	ListOverlapping(ctx context.Context, barberID uuid.UUID, start, end time.Time) ([]models.Appointment, error)
	FindAppointment(ctx context.Context, unitID, id uuid.UUID) (*models.Appointment, error)
	FindCancellableByPhone(ctx context.Context, q PhoneLookup) (*models.Appointment, error)
	FindNextPendingByPhone(ctx context.Context, unitID uuid.UUID, phones []string, from time.Time) (*models.Appointment, error)

	// -------- Appointment (write) --------
	// CreateAppointment inserts ap unless it overlaps a live appointment of the
	// same barber, in which case it returns ErrSlotTaken.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	// UpdateAppointment persists a transition of a still open appointment;
	// ErrNotFound when it was cancelled or completed meanwhile.
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	// CancelAppointment persists the cancelled state and its history record atomically.
	CancelAppointment(ctx context.Context, ap *models.Appointment, record *models.CancellationHistory) error

	// -------- Reminders --------
	ListReminderCandidates(ctx context.Context, from, until time.Time) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// PhoneLookup selects a cancellable appointment by contact phone. With a day
// window set, From is ignored.
type PhoneLookup struct {
	UnitID uuid.UUID
	Phones []string
	From   time.Time

	DayStart *time.Time
	DayEnd   *time.Time
}
