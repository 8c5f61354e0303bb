package tracking

import (
	"fmt"
	"math"
	"time"
)

// AccuracyClass buckets an accuracy radius for display.
func AccuracyClass(acc float64) string {
	if acc < 10 {
		return "high"
	}
	if acc < 50 {
		return "medium"
	}
	return "low"
}

// FormatDuration renders whole elapsed seconds as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	elapsed := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", elapsed/60, elapsed%60)
}

// FormatSpeed converts m/s to km/h.
func FormatSpeed(speed *float64) string {
	if speed == nil || math.IsNaN(*speed) {
		return "Not available"
	}
	return fmt.Sprintf("%.1f km/h", *speed*3.6)
}

// MapsURL links to the position on Google Maps, or returns "" when either
// coordinate is unset.
func MapsURL(lat, lng float64) string {
	if lat == 0 || lng == 0 {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
}
