// Package timefmt converts between the 12-hour display times the clinic UI
// renders and the 24-hour canonical times the backend stores, and formats
// calendar dates for the wire.
package timefmt

import (
	"fmt"
	"regexp"
	"time"

	"github.com/brightsmile/scheduling-api/pkg/errors"
)

var (
	re12Hour = regexp.MustCompile(`^(1[0-2]|[1-9]):([0-5][0-9]) (AM|PM)$`)
	re24Hour = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
)

// TimeOfDay is an immutable hour/minute pair in 24-hour form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTime24 parses a canonical "HH:MM" string.
func ParseTime24(s string) (TimeOfDay, error) {
	m := re24Hour.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, errors.NewFormat(fmt.Sprintf("invalid 24-hour time %q, expected HH:MM", s))
	}
	var t TimeOfDay
	fmt.Sscanf(m[1], "%d", &t.Hour)
	fmt.Sscanf(m[2], "%d", &t.Minute)
	return t, nil
}

// ParseTime12 parses a display "H:MM AM|PM" string.
func ParseTime12(s string) (TimeOfDay, error) {
	m := re12Hour.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, errors.NewFormat(fmt.Sprintf("invalid 12-hour time %q, expected H:MM AM|PM", s))
	}
	var hour, minute int
	fmt.Sscanf(m[1], "%d", &hour)
	fmt.Sscanf(m[2], "%d", &minute)

	switch {
	case m[3] == "AM" && hour == 12:
		hour = 0
	case m[3] == "PM" && hour != 12:
		hour += 12
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Format24 renders the canonical "HH:MM" form.
func (t TimeOfDay) Format24() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12 renders the display "H:MM AM|PM" form.
func (t TimeOfDay) Format12() string {
	modifier := "AM"
	hour := t.Hour
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		modifier = "PM"
	case hour > 12:
		hour -= 12
		modifier = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, modifier)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// To24Hour converts "2:30 PM" to "14:30". 12 AM maps to hour 00, 12 PM
// stays 12. Returns a format error for anything outside the strict pattern.
func To24Hour(time12 string) (string, error) {
	t, err := ParseTime12(time12)
	if err != nil {
		return "", err
	}
	return t.Format24(), nil
}

// To12Hour converts "14:30" to "2:30 PM". Hour 00 maps to 12 AM.
func To12Hour(time24 string) (string, error) {
	t, err := ParseTime24(time24)
	if err != nil {
		return "", err
	}
	return t.Format12(), nil
}

// DurationHours returns end minus start in hours as a signed value. Callers
// decide what a non-positive result means; this does not reject it.
func DurationHours(start24, end24 string) (float64, error) {
	start, err := ParseTime24(start24)
	if err != nil {
		return 0, err
	}
	end, err := ParseTime24(end24)
	if err != nil {
		return 0, err
	}
	return float64(end.Minutes()-start.Minutes()) / 60.0, nil
}

// FormatISODate renders the wall-clock day of t as YYYY-MM-DD. The date is
// taken in t's own location so the same local day survives timezone offsets.
func FormatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
