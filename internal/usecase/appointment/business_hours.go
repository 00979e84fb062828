package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type DayConfig struct {
	DayOfWeek   int    `json:"day_of_week"`
	IsOpen      bool   `json:"is_open"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

// BusinessHours reads and replaces the weekly schedule of a unit owner.
type BusinessHours struct {
	repo  domain.Repository
	audit audit.Auditor
}

func NewBusinessHours(repo domain.Repository, auditor audit.Auditor) *BusinessHours {
	return &BusinessHours{repo: repo, audit: auditor}
}

// Week returns all seven days; days without a row report the effective
// fallback schedule.
func (uc *BusinessHours) Week(ctx context.Context, unit *models.Unit) ([]DayConfig, error) {
	rows, err := uc.repo.ListBusinessHours(ctx, unit.UserID)
	if err != nil {
		return nil, err
	}
	settings, err := uc.repo.FindBusinessSettings(ctx, unit.UserID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int]*models.BusinessHours, len(rows))
	for i := range rows {
		byDay[rows[i].DayOfWeek] = &rows[i]
	}

	week := make([]DayConfig, 0, 7)
	for dow := 0; dow < 7; dow++ {
		h := domain.ResolveDayHours(byDay[dow], settings)
		week = append(week, DayConfig{
			DayOfWeek:   dow,
			IsOpen:      h.Open,
			OpeningTime: domain.FormatClock(h.Opening),
			ClosingTime: domain.FormatClock(h.Closing),
		})
	}
	return week, nil
}

func (uc *BusinessHours) Replace(ctx context.Context, unit *models.Unit, userID *uuid.UUID, days []DayConfig) error {
	seen := map[int]bool{}
	rows := make([]models.BusinessHours, 0, len(days))

	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return httperr.Validation("day_of_week deve estar entre 0 e 6")
		}
		if seen[d.DayOfWeek] {
			return httperr.Validation(fmt.Sprintf("Dia %d informado mais de uma vez", d.DayOfWeek))
		}
		seen[d.DayOfWeek] = true

		row := models.BusinessHours{UserID: unit.UserID, DayOfWeek: d.DayOfWeek, IsOpen: d.IsOpen}
		if d.IsOpen {
			open, ok1 := domain.ParseClock(d.OpeningTime)
			closing, ok2 := domain.ParseClock(d.ClosingTime)
			if !ok1 || !ok2 {
				return httperr.Validation("Horários devem estar no formato HH:MM")
			}
			if open >= closing {
				return httperr.Validation("Horário de abertura deve ser anterior ao de fechamento")
			}
			row.OpeningTime = domain.FormatClock(open)
			row.ClosingTime = domain.FormatClock(closing)
		}
		rows = append(rows, row)
	}

	if err := uc.repo.ReplaceBusinessHours(ctx, unit.UserID, rows); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UnitID:   unit.ID,
		UserID:   userID,
		Action:   audit.ActionBusinessHoursUpdated,
		Entity:   "business_hours",
		Metadata: map[string]any{"days": len(rows)},
	})
	return nil
}
