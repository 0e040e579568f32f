package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedTime indicates the input could not be interpreted as a
// time of day. Callers re-prompt; the input is never clamped or guessed.
var ErrMalformedTime = errors.New("malformed time input")

var (
	re12Hour   = regexp.MustCompile(`^(\d{1,2})(?:[:.,;](\d{2}))?\s*(am|pm)$`)
	re24Hour   = regexp.MustCompile(`^(\d{1,2})[:.,;](\d{2})$`)
	reBareHour = regexp.MustCompile(`^(\d{1,2})$`)
)

// Parse normalizes free-form time-of-day text into a canonical 24-hour
// "HH:MM" string. Recognized forms, in priority order:
//
//	"5 pm", "5:30pm", "12.15 am"  (12-hour, hour 1-12)
//	"17:00", "17,00", "17;00"     (24-hour)
//	"17", "9"                     (bare hour, minute defaults to 00)
//
// Out-of-range hours or minutes fail with ErrMalformedTime.
func Parse(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", ErrMalformedTime
	}

	if m := re12Hour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return "", ErrMalformedTime
		}
		if m[3] == "am" {
			if hour == 12 {
				hour = 0
			}
		} else if hour != 12 {
			hour += 12
		}
		return format(hour, minute), nil
	}

	if m := re24Hour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", ErrMalformedTime
		}
		return format(hour, minute), nil
	}

	if m := reBareHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 23 {
			return "", ErrMalformedTime
		}
		return format(hour, 0), nil
	}

	return "", ErrMalformedTime
}

// Clock splits a canonical "HH:MM" string into hour and minute.
func Clock(canonical string) (hour, minute int, err error) {
	m := re24Hour.FindStringSubmatch(canonical)
	if m == nil {
		return 0, 0, ErrMalformedTime
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, ErrMalformedTime
	}
	return hour, minute, nil
}

func format(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
