package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

type CheckAvailabilityInput struct {
	Unit         *models.Unit
	Date         string
	Professional string
}

type CheckAvailabilityOutput struct {
	Date     string
	Slots    []domain.Slot
	Services []models.Service
	Message  string
}

type CheckAvailability struct {
	repo domain.Repository
	Now  clock
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo, Now: time.Now}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in CheckAvailabilityInput,
) (*CheckAvailabilityOutput, error) {

	if in.Date == "" {
		return nil, httperr.Validation("Data é obrigatória")
	}
	if err := validators.Date(in.Date); err != nil {
		return nil, err
	}

	tz := unitTimezone(in.Unit)
	day := timezone.DateOnly(in.Date)
	out := &CheckAvailabilityOutput{Date: in.Date, Slots: []domain.Slot{}}

	// --------------------------------------------------
	// 1️⃣ Expediente do dia
	// --------------------------------------------------
	hours, err := resolveHours(ctx, uc.repo, in.Unit, day)
	if err != nil {
		return nil, err
	}
	if !hours.Open {
		out.Message = "Estabelecimento fechado neste dia"
		return out, nil
	}

	// --------------------------------------------------
	// 2️⃣ Barbeiros ativos
	// --------------------------------------------------
	barbers, err := uc.repo.ListActiveBarbers(ctx, in.Unit.ID, in.Professional)
	if err != nil {
		return nil, err
	}
	if len(barbers) == 0 {
		if in.Professional != "" {
			out.Message = fmt.Sprintf("Nenhum barbeiro encontrado com o nome \"%s\"", in.Professional)
		} else {
			out.Message = "Nenhum barbeiro ativo encontrado"
		}
		return out, nil
	}

	services, err := uc.repo.ListActiveServices(ctx, in.Unit.ID)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []models.Service{}
	}
	out.Services = services

	// --------------------------------------------------
	// 3️⃣ Agendamentos do dia (limites em UTC)
	// --------------------------------------------------
	start, end, err := timezone.DayBounds(day, tz)
	if err != nil {
		return nil, httperr.Validation("Data inválida")
	}
	appointments, err := uc.repo.ListAppointmentsForDay(ctx, in.Unit.ID, start, end)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Slots
	// --------------------------------------------------
	out.Slots = domain.GenerateSlots(domain.SlotInput{
		Date:         day,
		Timezone:     tz,
		Hours:        hours,
		Barbers:      barbers,
		Appointments: appointments,
		Now:          uc.Now(),
	})
	return out, nil
}

// resolveHours reads the unit owner's configuration for the weekday of day.
func resolveHours(ctx context.Context, repo domain.Repository, unit *models.Unit, day string) (domain.DayHours, error) {
	dow, err := timezone.Weekday(day)
	if err != nil {
		return domain.DayHours{}, httperr.Validation("Data inválida")
	}

	bh, err := repo.FindBusinessHours(ctx, unit.UserID, dow)
	if err != nil {
		return domain.DayHours{}, err
	}
	if bh != nil {
		return domain.ResolveDayHours(bh, nil), nil
	}

	settings, err := repo.FindBusinessSettings(ctx, unit.UserID)
	if err != nil {
		return domain.DayHours{}, err
	}
	return domain.ResolveDayHours(nil, settings), nil
}
