package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

const (
	SlotStep = 30 * time.Minute

	SlotStatusFree = "vago"

	// UTC instants are rendered with millisecond precision.
	ISOFormat = "2006-01-02T15:04:05.000Z"
)

type Slot struct {
	Time       string    `json:"time"`
	Datetime   string    `json:"datetime"`
	BarberID   uuid.UUID `json:"barber_id"`
	BarberName string    `json:"barber_name"`
	Status     string    `json:"status"`
}

type SlotInput struct {
	Date     string // YYYY-MM-DD, local calendar
	Timezone string
	Hours    DayHours

	Barbers      []models.Barber
	Appointments []models.Appointment

	Now time.Time
}

// GenerateSlots enumerates free (time, barber) pairs every 30 minutes from
// opening (inclusive) to closing (exclusive). On the unit's current day, time
// points at or before the local minute are skipped.
func GenerateSlots(in SlotInput) []Slot {
	slots := []Slot{}
	if !in.Hours.Open {
		return slots
	}

	localNow := in.Now.In(timezone.Location(in.Timezone))
	isToday := localNow.Format("2006-01-02") == in.Date
	nowMinutes := localNow.Hour()*60 + localNow.Minute()

	step := int(SlotStep / time.Minute)
	for m := in.Hours.Opening; m < in.Hours.Closing; m += step {
		if isToday && m <= nowMinutes {
			continue
		}

		label := FormatClock(m)
		instant, err := timezone.ParseLocal(in.Date+"T"+label+":00", in.Timezone)
		if err != nil {
			return slots
		}

		for i := range in.Barbers {
			b := &in.Barbers[i]
			if InLunchBreak(b, m) || Occupied(in.Appointments, b.ID, instant) {
				continue
			}
			slots = append(slots, Slot{
				Time:       label,
				Datetime:   instant.UTC().Format(ISOFormat),
				BarberID:   b.ID,
				BarberName: b.Name,
				Status:     SlotStatusFree,
			})
		}
	}
	return slots
}

// Occupied reports whether instant falls inside [start,end) of any live
// appointment of barberID.
func Occupied(appts []models.Appointment, barberID uuid.UUID, instant time.Time) bool {
	for i := range appts {
		ap := &appts[i]
		if ap.BarberID != barberID || Status(ap.Status) == StatusCancelled {
			continue
		}
		if !instant.Before(ap.StartTime) && instant.Before(ap.EndTime) {
			return true
		}
	}
	return false
}
