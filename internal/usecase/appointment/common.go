package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

const (
	unknownBarber  = "Desconhecido"
	unknownService = "Serviço"
)

// unitTimezone falls back to the default zone for units without one.
func unitTimezone(u *models.Unit) string {
	if u == nil || !timezone.IsValid(u.Timezone) {
		return timezone.DefaultTimezone
	}
	return u.Timezone
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type clock func() time.Time
