package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

type CheckSlotInput struct {
	Unit         *models.Unit
	Date         string
	Time         string // HH or HH:MM
	Professional string
}

type SlotConflict struct {
	Client string `json:"client"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type CheckSlotOutput struct {
	Available      bool
	Professional   string
	ProfessionalID *uuid.UUID
	Datetime       string // local wall clock
	Reason         *string
	Conflicts      []SlotConflict
}

type CheckSlot struct {
	repo domain.Repository
}

func NewCheckSlot(repo domain.Repository) *CheckSlot {
	return &CheckSlot{repo: repo}
}

func (uc *CheckSlot) Execute(ctx context.Context, in CheckSlotInput) (*CheckSlotOutput, error) {
	switch {
	case in.Date == "":
		return nil, httperr.Validation("Campo obrigatório: date")
	case in.Time == "":
		return nil, httperr.Validation("Campo obrigatório: time")
	case in.Professional == "":
		return nil, httperr.Validation("Campo obrigatório: professional")
	}
	if err := validators.Date(in.Date); err != nil {
		return nil, err
	}
	minutes, ok := domain.ParseClock(in.Time)
	if !ok {
		return nil, httperr.Validation("Horário inválido. Use HH ou HH:MM")
	}

	tz := unitTimezone(in.Unit)
	local := timezone.DateOnly(in.Date) + "T" + domain.FormatClock(minutes) + ":00"
	out := &CheckSlotOutput{Professional: in.Professional, Datetime: local}

	barber, err := uc.repo.FindActiveBarber(ctx, in.Unit.ID, in.Professional)
	if err != nil {
		return nil, err
	}
	if barber == nil {
		reason := fmt.Sprintf("Profissional \"%s\" não encontrado ou inativo", in.Professional)
		out.Reason = &reason
		return out, nil
	}
	out.Professional = barber.Name

	start, err := timezone.ParseLocal(local, tz)
	if err != nil {
		return nil, httperr.Validation("Data inválida")
	}
	end := start.Add(domain.SlotStep)

	clashes, err := uc.repo.ListOverlapping(ctx, barber.ID, start, end)
	if err != nil {
		return nil, err
	}
	if len(clashes) > 0 {
		reason := fmt.Sprintf("%s já tem agendamento neste horário", barber.Name)
		out.Reason = &reason
		for _, c := range clashes {
			out.Conflicts = append(out.Conflicts, SlotConflict{
				Client: c.ClientName,
				Start:  c.StartTime.UTC().Format(domain.ISOFormat),
				End:    c.EndTime.UTC().Format(domain.ISOFormat),
			})
		}
		return out, nil
	}

	out.Available = true
	out.ProfessionalID = &barber.ID
	return out, nil
}
