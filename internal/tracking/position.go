// Package tracking drives a client-side tracking session: it watches and
// polls a position source, keeps rolling statistics and a bounded history,
// and forwards every sample to the location API.
package tracking

import (
	"fmt"
	"time"
)

// Position is one reading reported by a position source.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64  // meters
	Speed     *float64 // m/s, nil when the source cannot tell
	Timestamp time.Time
}

// Options tune a single acquisition attempt.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultOptions asks for a fresh, high accuracy fix within ten seconds.
var DefaultOptions = Options{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaximumAge:   0,
}

// ErrorCode classifies acquisition failures.
type ErrorCode int

const (
	UnknownError        ErrorCode = 0
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

// PositionError is reported through the error callback of a source.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("position error %d", e.Code)
	}
	return fmt.Sprintf("position error %d: %s", e.Code, e.Message)
}

// WatchID identifies an active watch registration.
type WatchID int

// Geolocator is the device position source.
//
// Callbacks must be delivered from a goroutine other than the caller of
// WatchPosition or GetCurrentPosition, and GetCurrentPosition must return
// without waiting for the fix.
type Geolocator interface {
	WatchPosition(onPosition func(Position), onError func(error), opts Options) WatchID
	ClearWatch(id WatchID)
	GetCurrentPosition(onPosition func(Position), onError func(error), opts Options)
}
