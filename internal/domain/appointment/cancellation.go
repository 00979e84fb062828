package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

const (
	LateCancellationThreshold = 10 // minutes

	// Phone-driven cancellation ignores appointments younger than this.
	RecentCreationGuard = 5 * time.Second
)

// NewCancellationRecord snapshots ap at cancellation time.
func NewCancellationRecord(ap *models.Appointment, barberName, serviceName, source string, now time.Time) *models.CancellationHistory {
	minutesBefore := int(math.Round(ap.StartTime.Sub(now).Minutes()))

	return &models.CancellationHistory{
		UnitID:        ap.UnitID,
		CompanyID:     ap.CompanyID,
		AppointmentID: ap.ID,

		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		BarberName:  barberName,
		ServiceName: serviceName,

		ScheduledTime:      ap.StartTime,
		CancelledAt:        now,
		MinutesBefore:      minutesBefore,
		IsLateCancellation: minutesBefore < LateCancellationThreshold,
		IsNoShow:           false,
		TotalPrice:         ap.TotalPrice,
		CancellationSource: source,
	}
}

// CreatedTooRecently reports whether ap is still inside the creation guard.
func CreatedTooRecently(ap *models.Appointment, now time.Time) bool {
	return now.Sub(ap.CreatedAt) < RecentCreationGuard
}
