package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/dto"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists the unit's live appointments on one local day, optionally
// restricted to a single barber.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	unit *models.Unit,
	date string,
	barberID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	if err := validators.Date(date); err != nil {
		return nil, err
	}

	tz := unitTimezone(unit)
	start, end, err := timezone.DayBounds(date, tz)
	if err != nil {
		return nil, httperr.Validation("Formato de data inválido. Use YYYY-MM-DD")
	}

	appointments, err := uc.repo.ListAppointmentsForDay(ctx, unit.ID, start, end)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tz)
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		if barberID != nil && ap.BarberID != *barberID {
			continue
		}
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			LocalTime:   ap.StartTime.In(loc).Format("15:04"),
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
			BarberID:    ap.BarberID,
			BarberName:  orDefault(ap.Barber.Name, unknownBarber),
			ServiceName: orDefault(ap.Service.Name, unknownService),
			TotalPrice:  ap.TotalPrice,
			IsDependent: ap.IsDependent,
		})
	}

	return out, nil
}
