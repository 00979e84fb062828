package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
)

const (
	ActionConfirmed = "confirmed"
	ActionCancelled = "cancelled"
)

type ConfirmAppointmentInput struct {
	Unit     *models.Unit
	Phone    string
	Response string
}

type ConfirmAppointmentOutput struct {
	Action      string
	Appointment *models.Appointment
}

// ConfirmAppointment applies a client's SIM/NÃO reply to the nearest
// upcoming pending appointment.
type ConfirmAppointment struct {
	repo  domain.Repository
	audit audit.Auditor

	Now clock
}

func NewConfirmAppointment(repo domain.Repository, auditor audit.Auditor) *ConfirmAppointment {
	return &ConfirmAppointment{repo: repo, audit: auditor, Now: time.Now}
}

func (uc *ConfirmAppointment) Execute(ctx context.Context, in ConfirmAppointmentInput) (*ConfirmAppointmentOutput, error) {
	if in.Phone == "" || in.Response == "" {
		return nil, httperr.Validation("phone e response são obrigatórios")
	}

	now := uc.Now().UTC()

	// --------------------------------------------------
	// 1️⃣ Próximo agendamento pendente
	// --------------------------------------------------
	ap, err := uc.repo.FindNextPendingByPhone(ctx, in.Unit.ID, phone.Candidates(in.Phone), now)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.NotFound("appointment_not_found",
			"Nenhum agendamento pendente encontrado para este número")
	}

	// --------------------------------------------------
	// 2️⃣ Interpretação da resposta
	// --------------------------------------------------
	switch domain.ClassifyReply(in.Response) {
	case domain.ReplyConfirm:
		if err := domain.Confirm(ap, now); err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, err
		}
		uc.dispatch(ap, audit.ActionAppointmentConfirmed, in.Response)
		return &ConfirmAppointmentOutput{Action: ActionConfirmed, Appointment: ap}, nil

	case domain.ReplyCancel:
		if err := domain.Cancel(ap, now); err != nil {
			return nil, err
		}
		record := domain.NewCancellationRecord(
			ap,
			orDefault(ap.Barber.Name, unknownBarber),
			orDefault(ap.Service.Name, unknownService),
			domain.SourceWhatsApp,
			now,
		)
		if err := uc.repo.CancelAppointment(ctx, ap, record); err != nil {
			return nil, err
		}
		uc.dispatch(ap, audit.ActionAppointmentCancelled, in.Response)
		return &ConfirmAppointmentOutput{Action: ActionCancelled, Appointment: ap}, nil
	}

	return nil, httperr.BusinessError{
		Kind:    httperr.KindValidation,
		Code:    "unrecognized_response",
		Message: "Resposta não reconhecida. Responda SIM para confirmar ou NÃO para cancelar.",
		Details: map[string]any{"received_response": in.Response},
	}
}

func (uc *ConfirmAppointment) dispatch(ap *models.Appointment, action, reply string) {
	uc.audit.Dispatch(audit.Event{
		UnitID:   ap.UnitID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reply": reply},
	})
}
