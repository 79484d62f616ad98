// Package civil converts between absolute instants and the app's fixed
// UTC+8 calendar/clock representation. The offset is a constant shift with
// no daylight-saving or historical-offset awareness; it exists only for
// display and for interpreting user input.
package civil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedInput = errors.New("civil: malformed date or time input")
	ErrInvalidDate    = errors.New("civil: no such calendar date")
)

var zone = time.FixedZone("UTC+8", 8*60*60)

// Civil is a wall-clock reading at the fixed +08:00 offset, minute
// precision.
type Civil struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// ToCivil shifts the instant by +8 hours and reads its calendar and clock
// fields.
func ToCivil(at time.Time) Civil {
	local := at.In(zone)
	return Civil{
		Year:   local.Year(),
		Month:  int(local.Month()),
		Day:    local.Day(),
		Hour:   local.Hour(),
		Minute: local.Minute(),
	}
}

// FromCivil interprets the fields as wall-clock time at +08:00 and returns
// the corresponding instant. Out-of-range fields normalize the way
// time.Date does; use Validate when the fields come from user input.
func FromCivil(c Civil) time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, 0, 0, zone)
}

// Validate reports whether the fields name a real calendar date and clock
// time. A date like 2025-02-30 normalizes under FromCivil, so validity is
// checked by round-tripping.
func (c Civil) Validate() error {
	if c.Month < 1 || c.Month > 12 || c.Day < 1 || c.Day > 31 {
		return ErrInvalidDate
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return ErrMalformedInput
	}
	if ToCivil(FromCivil(c)) != c {
		return ErrInvalidDate
	}
	return nil
}

// ParseInput parses user-entered "YYYY-MM-DD" and "HH:mm" strings into an
// instant. The strings must split into five integers forming a real civil
// date and time; otherwise a validation error is returned and no instant is
// produced.
func ParseInput(dateStr, timeStr string) (time.Time, error) {
	dateParts := strings.Split(strings.TrimSpace(dateStr), "-")
	timeParts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(dateParts) != 3 || len(timeParts) != 2 {
		return time.Time{}, ErrMalformedInput
	}

	fields := make([]int, 0, 5)
	for _, raw := range append(dateParts, timeParts...) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, ErrMalformedInput
		}
		fields = append(fields, v)
	}

	c := Civil{Year: fields[0], Month: fields[1], Day: fields[2], Hour: fields[3], Minute: fields[4]}
	if err := c.Validate(); err != nil {
		return time.Time{}, err
	}
	return FromCivil(c), nil
}

// FormatShort renders the instant as "HH:MM" when it falls on the same
// civil day as now, and "MM-DD HH:MM" otherwise.
func FormatShort(at, now time.Time) string {
	c := ToCivil(at)
	ref := ToCivil(now)
	if c.Year == ref.Year && c.Month == ref.Month && c.Day == ref.Day {
		return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
	}
	return fmt.Sprintf("%02d-%02d %02d:%02d", c.Month, c.Day, c.Hour, c.Minute)
}

// NextHalfHour returns the first civil half-hour boundary strictly after
// now, used to pre-fill the reminder picker.
func NextHalfHour(now time.Time) time.Time {
	local := now.In(zone)
	boundary := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, zone)
	switch {
	case local.Minute() < 30:
		boundary = boundary.Add(30 * time.Minute)
	default:
		boundary = boundary.Add(time.Hour)
	}
	return boundary
}

// PickerStrings renders an instant as the "YYYY-MM-DD", "HH:mm" pair the
// reminder picker edits.
func PickerStrings(at time.Time) (string, string) {
	c := ToCivil(at)
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month, c.Day),
		fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
