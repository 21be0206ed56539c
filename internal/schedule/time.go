// Package schedule contains the pure scheduling core: clock/date arithmetic,
// availability resolution and slot generation. All functions operate on
// immutable inputs and carry no state.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidDate       = errors.New("invalid date format")
)

const minutesPerDay = 24 * 60

// ToMinutes parses "HH:MM" into a minute offset from midnight. A bare hour
// ("9") is accepted with minutes defaulting to zero.
func ToMinutes(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}

	minute := 0
	if len(parts) == 2 && parts[1] != "" {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
		}
	}

	return hour*60 + minute, nil
}

// ToClock renders a minute offset as zero-padded "HH:MM". Offsets outside a
// single day are a caller error and are not wrapped.
func ToClock(minutes int) (string, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: minute offset %d out of day range", ErrInvalidTimeFormat, minutes)
	}
	return clock(minutes), nil
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DateToISO formats a date as YYYY-MM-DD from its local calendar fields.
// Using the wall-clock date instead of a UTC-normalized timestamp avoids the
// previous-day shift near midnight.
func DateToISO(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseISODate parses YYYY-MM-DD into local midnight of that calendar date.
func ParseISODate(iso string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", iso, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, iso)
	}
	return t, nil
}
