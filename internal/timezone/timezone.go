package timezone

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

// Fixed UTC offsets (hours) of the supported Brazilian zones. None of them
// observes daylight saving time today, so no tz database is consulted.
var offsets = map[string]int{
	"America/Sao_Paulo":   -3,
	"America/Cuiaba":      -4,
	"America/Manaus":      -4,
	"America/Fortaleza":   -3,
	"America/Recife":      -3,
	"America/Belem":       -3,
	"America/Rio_Branco":  -5,
	"America/Noronha":     -2,
	"America/Porto_Velho": -4,
	"America/Boa_Vista":   -4,
}

var (
	trailingZ      = regexp.MustCompile(`Z$`)
	trailingOffset = regexp.MustCompile(`[+-]\d{2}:\d{2}$`)
	trailingMillis = regexp.MustCompile(`\.\d{3}$`)
	wallClock      = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:[T ](\d{2}):(\d{2})(?::(\d{2}))?)?`)
)

var ErrInvalidDateTime = errors.New("timezone: invalid local date/time")

func IsValid(tz string) bool {
	_, ok := offsets[tz]
	return ok
}

// Offset returns the fixed UTC offset of tz, falling back to DefaultTimezone.
func Offset(tz string) time.Duration {
	if h, ok := offsets[tz]; ok {
		return time.Duration(h) * time.Hour
	}
	return time.Duration(offsets[DefaultTimezone]) * time.Hour
}

func Location(tz string) *time.Location {
	name := tz
	if !IsValid(tz) {
		name = DefaultTimezone
	}
	return time.FixedZone(name, int(Offset(tz).Seconds()))
}

// StripOffset removes a trailing Z, numeric offset or millisecond fragment so
// the remaining value can be read as unit-local wall clock.
func StripOffset(s string) string {
	s = trailingZ.ReplaceAllString(s, "")
	s = trailingOffset.ReplaceAllString(s, "")
	return trailingMillis.ReplaceAllString(s, "")
}

// ParseLocal reads s as wall-clock time in tz, whatever suffix it carries, and
// returns the UTC instant.
func ParseLocal(s, tz string) (time.Time, error) {
	m := wallClock.FindStringSubmatch(strings.TrimSpace(StripOffset(strings.TrimSpace(s))))
	if m == nil {
		return time.Time{}, ErrInvalidDateTime
	}

	hh, mm, ss := orZero(m[2]), orZero(m[3]), orZero(m[4])
	t, err := time.ParseInLocation(
		"2006-01-02T15:04:05",
		m[1]+"T"+hh+":"+mm+":"+ss,
		Location(tz),
	)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t.UTC(), nil
}

// DateOnly returns the YYYY-MM-DD part of a date or datetime string.
func DateOnly(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		return s[:i]
	}
	return s
}

// DayBounds returns the UTC instants of 00:00:00 and 23:59:59 local time on
// the calendar date of s.
func DayBounds(s, tz string) (time.Time, time.Time, error) {
	day := DateOnly(s)

	start, err := ParseLocal(day+"T00:00:00", tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseLocal(day+"T23:59:59", tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Weekday resolves the day of week of a calendar date (0=Sunday).
func Weekday(date string) (int, error) {
	d, err := time.Parse("2006-01-02", DateOnly(date))
	if err != nil {
		return 0, ErrInvalidDateTime
	}
	return int(d.Weekday()), nil
}

func orZero(v string) string {
	if v == "" {
		return "00"
	}
	return v
}
