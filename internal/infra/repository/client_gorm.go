package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *ClientGormRepository) FindByPhones(
	ctx context.Context,
	unitID uuid.UUID,
	phones []string,
) ([]models.Client, error) {

	if len(phones) == 0 {
		return nil, nil
	}

	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND phone IN ?", unitID, phones).
		Order("created_at ASC").
		Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("find clients by phone: %w", err)
	}
	return clients, nil
}

func (r *ClientGormRepository) FindByName(
	ctx context.Context,
	unitID uuid.UUID,
	name string,
	birthDate *string,
) ([]models.Client, error) {

	q := r.db.WithContext(ctx).Where("unit_id = ? AND LOWER(name) = LOWER(?)", unitID, name)
	if birthDate != nil {
		q = q.Where("birth_date = ?", *birthDate)
	}

	var clients []models.Client
	if err := q.Order("created_at ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("find clients by name: %w", err)
	}
	return clients, nil
}

func (r *ClientGormRepository) Create(
	ctx context.Context,
	c *models.Client,
) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *ClientGormRepository) Update(
	ctx context.Context,
	c *models.Client,
	fields map[string]any,
) error {
	if err := r.db.WithContext(ctx).Model(c).Updates(fields).Error; err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *ClientGormRepository) Search(
	ctx context.Context,
	unitID uuid.UUID,
	query string,
	limit int,
	offset int,
) ([]models.Client, int64, error) {

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Client{}).Where("unit_id = ?", unitID)
		if query != "" {
			q = q.Where("(name ILIKE ? OR phone LIKE ?)", likePattern(query), likePattern(query))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	var clients []models.Client
	if err := scoped().Order("name ASC").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("search clients: %w", err)
	}
	return clients, total, nil
}

// --------------------------------------------------
// Dependents
// --------------------------------------------------

func (r *ClientGormRepository) ListDependents(
	ctx context.Context,
	clientID uuid.UUID,
) ([]models.ClientDependent, error) {

	var deps []models.ClientDependent
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("name ASC").
		Find(&deps).Error; err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	return deps, nil
}

func (r *ClientGormRepository) FindDependentByName(
	ctx context.Context,
	clientID uuid.UUID,
	name string,
) (*models.ClientDependent, error) {

	var dep models.ClientDependent
	ok, err := findOne(r.db.WithContext(ctx).
		Where("client_id = ? AND LOWER(name) = LOWER(?)", clientID, name), &dep)
	if err != nil {
		return nil, fmt.Errorf("find dependent: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &dep, nil
}

func (r *ClientGormRepository) CreateDependent(
	ctx context.Context,
	d *models.ClientDependent,
) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create dependent: %w", err)
	}
	return nil
}

// --------------------------------------------------
// History
// --------------------------------------------------

func (r *ClientGormRepository) LastCompletedAppointment(
	ctx context.Context,
	unitID uuid.UUID,
	phones []string,
) (*models.Appointment, error) {

	if len(phones) == 0 {
		return nil, nil
	}

	var ap models.Appointment
	ok, err := findOne(r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("unit_id = ? AND client_phone IN ? AND status = ?", unitID, phones, "completed").
		Order("start_time DESC"), &ap)
	if err != nil {
		return nil, fmt.Errorf("find last appointment: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &ap, nil
}

// Compile-time check
var _ domain.Repository = (*ClientGormRepository)(nil)
