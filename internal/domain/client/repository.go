package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type Repository interface {
	// Clients of the unit whose phone is one of phones, oldest first.
	FindByPhones(ctx context.Context, unitID uuid.UUID, phones []string) ([]models.Client, error)
	// Clients of the unit named name (case-insensitive), oldest first. A
	// non-nil birthDate narrows the match.
	FindByName(ctx context.Context, unitID uuid.UUID, name string, birthDate *string) ([]models.Client, error)
	Create(ctx context.Context, c *models.Client) error
	// Update writes only the given columns.
	Update(ctx context.Context, c *models.Client, fields map[string]any) error
	Search(ctx context.Context, unitID uuid.UUID, query string, limit, offset int) ([]models.Client, int64, error)

	ListDependents(ctx context.Context, clientID uuid.UUID) ([]models.ClientDependent, error)
	FindDependentByName(ctx context.Context, clientID uuid.UUID, name string) (*models.ClientDependent, error)
	CreateDependent(ctx context.Context, d *models.ClientDependent) error

	// Most recent completed appointment of the unit for any of phones.
	LastCompletedAppointment(ctx context.Context, unitID uuid.UUID, phones []string) (*models.Appointment, error)
}
