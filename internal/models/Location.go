package models

import (
	"strings"
	"time"
)

// ISOLayout is the millisecond UTC layout used for every server-assigned time.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Location is one stored sample. Records are immutable once created.
type Location struct {
	ID         string   `json:"id"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Accuracy   *float64 `json:"accuracy,omitempty"` // meters
	Timestamp  string   `json:"timestamp"`
	ReceivedAt string   `json:"receivedAt"`
}

// LocationInput is the ingest request body. `required` rejects zero
// coordinates the same way it rejects missing ones.
type LocationInput struct {
	Latitude  float64  `json:"latitude" binding:"required"`
	Longitude float64  `json:"longitude" binding:"required"`
	Accuracy  *float64 `json:"accuracy"`
	Timestamp string   `json:"timestamp"`
}

// FormatTime renders t in ISOLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 shapes clients send. Values without a
// zone are read as UTC. The bool is false when nothing matched.
func ParseTimestamp(raw string) (time.Time, bool) {
	ts := strings.TrimSpace(raw)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// LocationPage is the query response: a newest-first page plus the store
// size before filtering.
type LocationPage struct {
	Count     int        `json:"count"`
	Total     int        `json:"total"`
	Locations []Location `json:"locations"`
}
