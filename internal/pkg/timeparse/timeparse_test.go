package timeparse

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"5 pm", "17:00"},
		{"5pm", "17:00"},
		{"5:30 pm", "17:30"},
		{"5.30pm", "17:30"},
		{"12 am", "00:00"},
		{"12 pm", "12:00"},
		{"12:45 am", "00:45"},
		{"1 am", "01:00"},
		{"11:59 pm", "23:59"},
		{"17:00", "17:00"},
		{"17,00", "17:00"},
		{"17;30", "17:30"},
		{"17.15", "17:15"},
		{"0:00", "00:00"},
		{"9:05", "09:05"},
		{"17", "17:00"},
		{"9", "09:00"},
		{"0", "00:00"},
		{"23", "23:00"},
		{"  5 PM  ", "17:00"},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{
		"", "abc", "25:00", "24", "13 pm", "0 pm", "12:60 am",
		"17:60", "17:5", "5:5 pm", "170:00", "5 xm", "pm", "-1",
	}

	for _, input := range inputs {
		if _, err := Parse(input); !errors.Is(err, ErrMalformedTime) {
			t.Errorf("Parse(%q): expected ErrMalformedTime, got %v", input, err)
		}
	}
}

// Parsing an already-canonical HH:MM string must yield the same string.
func TestParseRoundTrip(t *testing.T) {
	canonical := []string{"00:00", "08:00", "09:05", "16:00", "22:00", "23:59"}

	for _, s := range canonical {
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("Parse(%q) = %q, round trip broken", s, got)
		}
	}
}

func TestClock(t *testing.T) {
	hour, minute, err := Clock("17:30")
	if err != nil {
		t.Fatalf("Clock: %v", err)
	}
	if hour != 17 || minute != 30 {
		t.Errorf("Clock(17:30) = %d:%d", hour, minute)
	}

	if _, _, err := Clock("5 pm"); !errors.Is(err, ErrMalformedTime) {
		t.Errorf("Clock should only accept canonical form, got %v", err)
	}
}
