package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

var ErrTooRecent = httperr.Conflict(
	"appointment_too_recent",
	"Agendamento muito recente, aguarde alguns segundos e tente novamente",
)

type CancelAppointmentInput struct {
	Unit          *models.Unit
	AppointmentID *uuid.UUID
	Phone         string
	Date          string // optional, narrows the phone lookup to one local day
	Source        string
}

type CancelAppointment struct {
	repo  domain.Repository
	audit audit.Auditor

	Now clock
}

func NewCancelAppointment(repo domain.Repository, auditor audit.Auditor) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: auditor,
		Now:   time.Now,
	}
}

func (uc *CancelAppointment) Execute(ctx context.Context, in CancelAppointmentInput) (*models.Appointment, error) {
	if in.AppointmentID == nil && in.Phone == "" {
		return nil, httperr.Validation("Informe appointment_id ou telefone/client_phone")
	}

	now := uc.Now().UTC()

	var (
		ap  *models.Appointment
		err error
	)
	if in.AppointmentID != nil {
		ap, err = uc.byID(ctx, in.Unit, *in.AppointmentID)
	} else {
		ap, err = uc.byPhone(ctx, in, now)
	}
	if err != nil {
		return nil, err
	}

	// Terminal rows surface as not found.
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	source := orDefault(in.Source, domain.SourceWhatsApp)
	record := domain.NewCancellationRecord(
		ap,
		orDefault(ap.Barber.Name, unknownBarber),
		orDefault(ap.Service.Name, unknownService),
		source,
		now,
	)
	if err := uc.repo.CancelAppointment(ctx, ap, record); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UnitID:   ap.UnitID,
		Action:   audit.ActionAppointmentCancelled,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"source":         source,
			"minutes_before": record.MinutesBefore,
			"late":           record.IsLateCancellation,
		},
	})

	return ap, nil
}

func (uc *CancelAppointment) byID(ctx context.Context, unit *models.Unit, id uuid.UUID) (*models.Appointment, error) {
	ap, err := uc.repo.FindAppointment(ctx, unit.ID, id)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, domain.ErrNotFound
	}
	return ap, nil
}

func (uc *CancelAppointment) byPhone(ctx context.Context, in CancelAppointmentInput, now time.Time) (*models.Appointment, error) {
	digits, err := validators.Phone(in.Phone)
	if err != nil {
		return nil, err
	}

	q := domain.PhoneLookup{
		UnitID: in.Unit.ID,
		Phones: phone.Candidates(digits),
		From:   now,
	}
	if in.Date != "" {
		if err := validators.Date(in.Date); err != nil {
			return nil, err
		}
		dayStart, dayEnd, err := timezone.DayBounds(in.Date, unitTimezone(in.Unit))
		if err != nil {
			return nil, httperr.Validation("Formato de data inválido. Use YYYY-MM-DD")
		}
		q.DayStart, q.DayEnd = &dayStart, &dayEnd
	}

	ap, err := uc.repo.FindCancellableByPhone(ctx, q)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		scope := " futuro"
		if in.Date != "" {
			scope = " na data " + timezone.DateOnly(in.Date)
		}
		return nil, httperr.NotFound("appointment_not_found",
			fmt.Sprintf("Nenhum agendamento%s encontrado para este telefone", scope))
	}

	if domain.CreatedTooRecently(ap, now) {
		return nil, ErrTooRecent
	}
	return ap, nil
}
