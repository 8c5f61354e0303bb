package tracking

import (
	"math"
	"testing"
	"time"
)

func TestAccuracyClass(t *testing.T) {
	cases := map[float64]string{
		0:     "high",
		9.99:  "high",
		10:    "medium",
		49.9:  "medium",
		50:    "low",
		250.5: "low",
	}
	for acc, want := range cases {
		if got := AccuracyClass(acc); got != want {
			t.Errorf("AccuracyClass(%v) = %s, want %s", acc, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{999 * time.Millisecond, "0:00"},
		{5 * time.Second, "0:05"},
		{65 * time.Second, "1:05"},
		{10 * time.Minute, "10:00"},
		{61*time.Minute + 9*time.Second, "61:09"},
		{-3 * time.Second, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %s, want %s", tc.d, got, tc.want)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	ten := 10.0
	nan := math.NaN()
	if got := FormatSpeed(&ten); got != "36.0 km/h" {
		t.Errorf("FormatSpeed(10) = %s", got)
	}
	if got := FormatSpeed(nil); got != "Not available" {
		t.Errorf("FormatSpeed(nil) = %s", got)
	}
	if got := FormatSpeed(&nan); got != "Not available" {
		t.Errorf("FormatSpeed(NaN) = %s", got)
	}
}

func TestMapsURL(t *testing.T) {
	if got := MapsURL(-1.5, 36.25); got != "https://www.google.com/maps?q=-1.5,36.25" {
		t.Errorf("MapsURL = %s", got)
	}
	if got := MapsURL(0, 36.25); got != "" {
		t.Errorf("MapsURL with zero latitude = %q, want empty", got)
	}
}
