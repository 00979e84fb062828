package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// findOne loads the first row of q into dest and reports whether one existed.
func findOne(q *gorm.DB, dest any) (bool, error) {
	res := q.Limit(1).Find(dest)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func likePattern(s string) string {
	return "%" + s + "%"
}

// --------------------------------------------------
// Unit
// --------------------------------------------------

func (r *AppointmentGormRepository) FindUnit(
	ctx context.Context,
	id uuid.UUID,
) (*models.Unit, error) {

	var unit models.Unit
	ok, err := findOne(r.db.WithContext(ctx).Where("id = ?", id), &unit)
	if err != nil {
		return nil, fmt.Errorf("find unit: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &unit, nil
}

func (r *AppointmentGormRepository) FindUnitByInstance(
	ctx context.Context,
	instance string,
) (*models.Unit, error) {

	var unit models.Unit
	ok, err := findOne(r.db.WithContext(ctx).Where("evolution_instance_name = ?", instance), &unit)
	if err != nil {
		return nil, fmt.Errorf("find unit by instance: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &unit, nil
}

// --------------------------------------------------
// Business hours
// --------------------------------------------------

func (r *AppointmentGormRepository) FindBusinessHours(
	ctx context.Context,
	userID uuid.UUID,
	dayOfWeek int,
) (*models.BusinessHours, error) {

	var bh models.BusinessHours
	ok, err := findOne(r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek), &bh)
	if err != nil {
		return nil, fmt.Errorf("find business hours: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &bh, nil
}

func (r *AppointmentGormRepository) FindBusinessSettings(
	ctx context.Context,
	userID uuid.UUID,
) (*models.BusinessSettings, error) {

	var settings models.BusinessSettings
	ok, err := findOne(r.db.WithContext(ctx).Where("user_id = ?", userID), &settings)
	if err != nil {
		return nil, fmt.Errorf("find business settings: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (r *AppointmentGormRepository) ListBusinessHours(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.BusinessHours, error) {

	var hours []models.BusinessHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC").
		Find(&hours).Error; err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}
	return hours, nil
}

func (r *AppointmentGormRepository) ReplaceBusinessHours(
	ctx context.Context,
	userID uuid.UUID,
	hours []models.BusinessHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.BusinessHours{}).Error; err != nil {
			return fmt.Errorf("delete business hours: %w", err)
		}
		if len(hours) == 0 {
			return nil
		}
		for i := range hours {
			hours[i].UserID = userID
		}
		if err := tx.Create(&hours).Error; err != nil {
			return fmt.Errorf("create business hours: %w", err)
		}
		return nil
	})
}

// --------------------------------------------------
// Roster
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveBarbers(
	ctx context.Context,
	unitID uuid.UUID,
	nameFilter string,
) ([]models.Barber, error) {

	q := r.db.WithContext(ctx).Where("unit_id = ? AND is_active = ?", unitID, true)
	if nameFilter != "" {
		q = q.Where("name ILIKE ?", likePattern(nameFilter))
	}

	var barbers []models.Barber
	if err := q.Order("name ASC").Find(&barbers).Error; err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	return barbers, nil
}

func (r *AppointmentGormRepository) ListActiveServices(
	ctx context.Context,
	unitID uuid.UUID,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ?", unitID, true).
		Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (r *AppointmentGormRepository) FindActiveBarber(
	ctx context.Context,
	unitID uuid.UUID,
	name string,
) (*models.Barber, error) {

	var barber models.Barber
	ok, err := findOne(r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ? AND name ILIKE ?", unitID, true, likePattern(name)).
		Order("name ASC"), &barber)
	if err != nil {
		return nil, fmt.Errorf("find barber: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) FindActiveService(
	ctx context.Context,
	unitID uuid.UUID,
	name string,
) (*models.Service, error) {

	var service models.Service
	ok, err := findOne(r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ? AND name ILIKE ?", unitID, true, likePattern(name)).
		Order("name ASC"), &service)
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	unitID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where(
			"unit_id = ? AND start_time >= ? AND start_time <= ? AND status <> ?",
			unitID, start, end, string(domain.StatusCancelled),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list appointments for day: %w", err)
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListOverlapping(
	ctx context.Context,
	barberID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := overlapping(r.db.WithContext(ctx), barberID, start, end).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list overlapping: %w", err)
	}
	return apps, nil
}

func overlapping(q *gorm.DB, barberID uuid.UUID, start, end time.Time) *gorm.DB {
	return q.Where(
		"barber_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
		barberID, string(domain.StatusCancelled), end, start,
	)
}

func (r *AppointmentGormRepository) FindAppointment(
	ctx context.Context,
	unitID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	ok, err := findOne(r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("id = ? AND unit_id = ?", id, unitID), &ap)
	if err != nil {
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindCancellableByPhone(
	ctx context.Context,
	q domain.PhoneLookup,
) (*models.Appointment, error) {

	query := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("unit_id = ? AND client_phone IN ? AND status IN ?",
			q.UnitID, q.Phones, domain.OpenStatuses())

	if q.DayStart != nil && q.DayEnd != nil {
		query = query.Where("start_time >= ? AND start_time <= ?", *q.DayStart, *q.DayEnd)
	} else {
		query = query.Where("start_time >= ?", q.From)
	}

	var ap models.Appointment
	ok, err := findOne(query.Order("start_time ASC").Order("created_at ASC"), &ap)
	if err != nil {
		return nil, fmt.Errorf("find appointment by phone: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindNextPendingByPhone(
	ctx context.Context,
	unitID uuid.UUID,
	phones []string,
	from time.Time,
) (*models.Appointment, error) {

	var ap models.Appointment
	ok, err := findOne(r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("unit_id = ? AND client_phone IN ? AND status = ? AND start_time >= ?",
			unitID, phones, string(domain.StatusPending), from).
		Order("start_time ASC"), &ap)
	if err != nil {
		return nil, fmt.Errorf("find pending appointment: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

// CreateAppointment serializes inserts per barber with a transaction-scoped
// advisory lock, re-checks overlaps under FOR UPDATE and leaves the exclusion
// constraint as the last guard.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?))",
			ap.BarberID.String(),
		).Error; err != nil {
			return fmt.Errorf("lock barber: %w", err)
		}

		var clash []models.Appointment
		if err := overlapping(
			tx.Clauses(clause.Locking{Strength: "UPDATE"}),
			ap.BarberID, ap.StartTime, ap.EndTime,
		).Find(&clash).Error; err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if len(clash) > 0 {
			return domain.ErrSlotTaken
		}

		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotTaken
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
}

// UpdateAppointment writes a confirm or complete transition. A row that was
// closed meanwhile is left alone and reported as ErrNotFound.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", ap.ID, domain.OpenStatuses()).
		Updates(map[string]any{
			"status":       ap.Status,
			"confirmed_at": ap.ConfirmedAt,
			"completed_at": ap.CompletedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) CancelAppointment(
	ctx context.Context,
	ap *models.Appointment,
	record *models.CancellationHistory,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status IN ?", ap.ID, domain.OpenStatuses()).
			Updates(map[string]any{
				"status":       ap.Status,
				"cancelled_at": ap.CancelledAt,
			})
		if res.Error != nil {
			return fmt.Errorf("cancel appointment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("record cancellation: %w", err)
		}
		return nil
	})
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *AppointmentGormRepository) ListReminderCandidates(
	ctx context.Context,
	from time.Time,
	until time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where(
			"status = ? AND reminder_sent_at IS NULL AND client_phone IS NOT NULL AND start_time > ? AND start_time <= ?",
			string(domain.StatusPending), from, until,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return apps, nil
}

// MarkReminderSent claims the reminder of an appointment; false means another
// run already did.
func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	id uuid.UUID,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND reminder_sent_at IS NULL", id).
		Update("reminder_sent_at", at)
	if res.Error != nil {
		return false, fmt.Errorf("mark reminder: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
