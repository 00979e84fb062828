package appointment

import (
	"strconv"
	"strings"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

const (
	DefaultOpeningMinutes = 8 * 60
	DefaultClosingMinutes = 21 * 60
)

// DayHours is the opening window of one local calendar day, in minutes since
// midnight.
type DayHours struct {
	Open    bool
	Opening int
	Closing int
}

func DefaultDayHours() DayHours {
	return DayHours{Open: true, Opening: DefaultOpeningMinutes, Closing: DefaultClosingMinutes}
}

// ResolveDayHours picks the day-specific configuration when present, the
// account-wide settings otherwise, and 08:00 to 21:00 when neither sets a time.
func ResolveDayHours(day *models.BusinessHours, settings *models.BusinessSettings) DayHours {
	h := DefaultDayHours()

	if day != nil {
		h.Open = day.IsOpen
		if m, ok := ParseClock(day.OpeningTime); ok {
			h.Opening = m
		}
		if m, ok := ParseClock(day.ClosingTime); ok {
			h.Closing = m
		}
		return h
	}

	if settings != nil {
		if settings.OpeningTime != nil {
			if m, ok := ParseClock(*settings.OpeningTime); ok {
				h.Opening = m
			}
		}
		if settings.ClosingTime != nil {
			if m, ok := ParseClock(*settings.ClosingTime); ok {
				h.Closing = m
			}
		}
	}
	return h
}

// ParseClock reads "HH", "HH:MM" or "HH:MM:SS" as minutes since midnight.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}

	m := 0
	if len(parts) > 1 {
		m, err = strconv.Atoi(parts[1])
		if err != nil || m < 0 || m > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

func FormatClock(minutes int) string {
	return pad2(minutes/60) + ":" + pad2(minutes%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// InLunchBreak reports whether minutes falls in [lunchStart, lunchEnd) of a
// barber with the break enabled.
func InLunchBreak(b *models.Barber, minutes int) bool {
	if !b.LunchBreakEnabled {
		return false
	}
	start, ok := ParseClock(b.LunchBreakStart)
	if !ok {
		return false
	}
	end, ok := ParseClock(b.LunchBreakEnd)
	if !ok {
		return false
	}
	return minutes >= start && minutes < end
}
