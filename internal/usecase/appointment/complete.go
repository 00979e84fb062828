package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit audit.Auditor

	Now clock
}

func NewCompleteAppointment(
	repo domain.Repository,
	auditor audit.Auditor,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: auditor,
		Now:   time.Now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	unitID uuid.UUID,
	userID *uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.FindAppointment(ctx, unitID, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.Now().UTC()
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UnitID:   unitID,
		UserID:   userID,
		Action:   audit.ActionAppointmentCompleted,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
