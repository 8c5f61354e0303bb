package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/raptor1820/georloctesting/internal/models"
)

const (
	// HistoryLimit bounds the number of history entries kept per session.
	HistoryLimit = 50
	// DefaultInterval is the poll interval used until SetInterval is called.
	DefaultInterval = 3 * time.Second
)

var durationTick = time.Second

// AllowedIntervals are the poll intervals a session may use.
var AllowedIntervals = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	3 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

var (
	ErrUnsupported     = errors.New("geolocation not supported")
	ErrInvalidInterval = errors.New("invalid poll interval")
	ErrIntervalLocked  = errors.New("poll interval cannot change while tracking")
)

// User-facing status messages.
const (
	MsgReady          = "Ready to start tracking"
	MsgUnsupported    = "Geolocation not supported"
	MsgAcquiring      = "Acquiring location..."
	MsgStopped        = "Tracking stopped"
	MsgPermission     = "Location permission denied"
	MsgUnavailable    = "Location unavailable"
	MsgTimeout        = "Request timed out"
	MsgUnknown        = "Unknown error"
	MsgAPIError       = "API error"
	msgActiveTemplate = "Tracking active - %d updates"
)

// StatusType is the coarse state shown next to the status message.
type StatusType string

const (
	StatusWaiting StatusType = "waiting"
	StatusActive  StatusType = "active"
	StatusError   StatusType = "error"
)

type Status struct {
	Type    StatusType
	Message string
}

// APIStatus is the outcome of the most recent forward.
type APIStatus struct {
	Success bool
	Message string
}

// HistoryEntry is one formatted history row.
type HistoryEntry struct {
	Lat  string
	Lng  string
	Time string
}

// State is a point-in-time copy of a session for rendering.
type State struct {
	Tracking     bool
	Interval     time.Duration
	SessionStart time.Time
	UpdateCount  int
	AvgAccuracy  float64
	Current      *Position
	LastUpdate   time.Time
	Duration     string
	History      []HistoryEntry
	Status       Status
	APIStatus    *APIStatus
}

// Controller runs tracking sessions. Session state is only mutated under mu,
// through Start, Stop and the position/error handlers.
type Controller struct {
	geo       Geolocator
	forwarder Forwarder
	options   Options
	now       func() time.Time

	mu           sync.Mutex
	interval     time.Duration
	tracking     bool
	generation   uint64
	sessionStart time.Time
	updateCount  int
	accuracySum  float64
	avgAccuracy  float64
	current      *Position
	lastUpdate   time.Time
	duration     string
	history      []HistoryEntry
	status       Status
	apiStatus    *APIStatus

	watchID  WatchID
	hasWatch bool
	cancel   context.CancelFunc
	loops    *sync.WaitGroup

	forwards sync.WaitGroup
}

// NewController returns an idle controller. A nil geo means the host has no
// position capability; a nil forwarder disables forwarding.
func NewController(geo Geolocator, forwarder Forwarder) *Controller {
	return &Controller{
		geo:       geo,
		forwarder: forwarder,
		options:   DefaultOptions,
		now:       time.Now,
		interval:  DefaultInterval,
		duration:  FormatDuration(0),
		status:    Status{Type: StatusWaiting, Message: MsgReady},
	}
}

// SetInterval changes the poll interval. It is only allowed while idle.
func (c *Controller) SetInterval(d time.Duration) error {
	if !validInterval(d) {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tracking {
		return ErrIntervalLocked
	}
	c.interval = d
	return nil
}

func validInterval(d time.Duration) bool {
	for _, allowed := range AllowedIntervals {
		if d == allowed {
			return true
		}
	}
	return false
}

// Start begins a session: it resets the counters, registers a watch and
// starts the poll and duration loops. Starting an active session is a no-op.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.geo == nil {
		c.status = Status{Type: StatusError, Message: MsgUnsupported}
		c.mu.Unlock()
		return ErrUnsupported
	}
	if c.tracking {
		c.mu.Unlock()
		return nil
	}

	c.generation++
	gen := c.generation
	c.tracking = true
	c.sessionStart = c.now()
	c.updateCount = 0
	c.accuracySum = 0
	c.avgAccuracy = 0
	c.history = nil
	c.duration = FormatDuration(0)
	c.status = Status{Type: StatusActive, Message: MsgAcquiring}

	ctx, cancel := context.WithCancel(context.Background())
	loops := &sync.WaitGroup{}
	c.cancel = cancel
	c.loops = loops
	interval := c.interval
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"interval": interval.String(),
		"session":  gen,
	}).Info("Tracking started.")

	onPosition := func(p Position) { c.handlePosition(gen, p) }
	onError := func(err error) { c.handleError(gen, err) }

	id := c.geo.WatchPosition(onPosition, onError, c.options)

	c.mu.Lock()
	if c.generation != gen {
		// stopped while registering
		c.mu.Unlock()
		c.geo.ClearWatch(id)
		return nil
	}
	c.watchID = id
	c.hasWatch = true
	loops.Add(2)
	c.mu.Unlock()

	go c.poll(ctx, loops, interval, onPosition, onError)
	go c.tickDuration(ctx, loops, gen)
	return nil
}

// Stop ends the session. It clears the watch, stops both loops and waits for
// them to exit. Calling it while idle only resets the status message.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasTracking := c.tracking
	c.tracking = false
	c.generation++
	id, hasWatch := c.watchID, c.hasWatch
	c.hasWatch = false
	cancel, loops := c.cancel, c.loops
	c.cancel, c.loops = nil, nil
	c.status = Status{Type: StatusWaiting, Message: MsgStopped}
	updates := c.updateCount
	c.mu.Unlock()

	if hasWatch {
		c.geo.ClearWatch(id)
	}
	if cancel != nil {
		cancel()
	}
	if loops != nil {
		loops.Wait()
	}

	if wasTracking {
		logrus.WithField("updates", updates).Info("Tracking stopped.")
	}
}

// WaitForwards blocks until every in-flight forward has finished.
func (c *Controller) WaitForwards() {
	c.forwards.Wait()
}

// Snapshot copies the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Tracking:     c.tracking,
		Interval:     c.interval,
		SessionStart: c.sessionStart,
		UpdateCount:  c.updateCount,
		AvgAccuracy:  c.avgAccuracy,
		LastUpdate:   c.lastUpdate,
		Duration:     c.duration,
		History:      append([]HistoryEntry(nil), c.history...),
		Status:       c.status,
	}
	if c.current != nil {
		cur := *c.current
		st.Current = &cur
	}
	if c.apiStatus != nil {
		api := *c.apiStatus
		st.APIStatus = &api
	}
	return st
}

// handlePosition is the single entry point for samples from both the watch
// and the poll. Samples from a revoked session are dropped.
func (c *Controller) handlePosition(gen uint64, p Position) {
	c.mu.Lock()
	if !c.tracking || gen != c.generation {
		c.mu.Unlock()
		return
	}

	now := c.now()
	c.updateCount++
	c.accuracySum += p.Accuracy
	c.avgAccuracy = c.accuracySum / float64(c.updateCount)
	cur := p
	c.current = &cur
	c.lastUpdate = now

	entry := HistoryEntry{
		Lat:  fmt.Sprintf("%.6f", p.Latitude),
		Lng:  fmt.Sprintf("%.6f", p.Longitude),
		Time: now.Format("15:04:05"),
	}
	n := len(c.history) + 1
	if n > HistoryLimit {
		n = HistoryLimit
	}
	history := make([]HistoryEntry, n)
	history[0] = entry
	copy(history[1:], c.history)
	c.history = history

	c.status = Status{Type: StatusActive, Message: fmt.Sprintf(msgActiveTemplate, c.updateCount)}
	forwarding := c.forwarder != nil
	if forwarding {
		// counted under mu so WaitForwards after Stop sees it
		c.forwards.Add(1)
	}
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
		"accuracy":  p.Accuracy,
	}).Debug("Position received.")

	if forwarding {
		go c.forward(Sample{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Accuracy:  p.Accuracy,
			Timestamp: models.FormatTime(now),
		})
	}
}

// handleError surfaces an acquisition failure. The session keeps running.
func (c *Controller) handleError(gen uint64, err error) {
	msg := errorMessage(err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tracking || gen != c.generation {
		return
	}
	c.status = Status{Type: StatusError, Message: msg}
	logrus.WithError(err).Warn("Position acquisition failed.")
}

func errorMessage(err error) string {
	var perr *PositionError
	if !errors.As(err, &perr) {
		return MsgUnknown
	}
	switch perr.Code {
	case PermissionDenied:
		return MsgPermission
	case PositionUnavailable:
		return MsgUnavailable
	case Timeout:
		return MsgTimeout
	default:
		return MsgUnknown
	}
}

// forward delivers s and records the outcome in apiStatus. The caller has
// already added it to c.forwards.
func (c *Controller) forward(s Sample) {
	defer c.forwards.Done()

	loc, err := c.forwarder.Forward(context.Background(), s)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.apiStatus = &APIStatus{Success: false, Message: MsgAPIError}
		logrus.WithError(err).Warn("Failed to forward location.")
		return
	}
	c.apiStatus = &APIStatus{Success: true, Message: "Saved: " + loc.ID}
}

func (c *Controller) poll(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, onPosition func(Position), onError func(error)) {
	defer wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.geo.GetCurrentPosition(onPosition, onError, c.options)
		}
	}
}

func (c *Controller) tickDuration(ctx context.Context, wg *sync.WaitGroup, gen uint64) {
	defer wg.Done()

	ticker := time.NewTicker(durationTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.tracking && gen == c.generation {
				c.duration = FormatDuration(c.now().Sub(c.sessionStart))
			}
			c.mu.Unlock()
		}
	}
}
