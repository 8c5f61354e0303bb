package tracking

import (
	"math/rand/v2"
	"sync"
	"time"
)

// SimulatedSource is a Geolocator that random-walks around an origin. It
// stands in for device GPS in the headless tracker and in demos.
type SimulatedSource struct {
	// WatchEvery is the cadence of watch updates.
	WatchEvery time.Duration
	// ErrorRate is the probability, 0..1, that an attempt fails.
	ErrorRate float64
	// MaxLatency bounds the simulated time to a fix.
	MaxLatency time.Duration

	mu      sync.Mutex
	rng     *rand.Rand
	lat     float64
	lng     float64
	nextID  WatchID
	watches map[WatchID]chan struct{}
}

// NewSimulatedSource starts the walk at (lat, lng). The same seed yields the
// same walk.
func NewSimulatedSource(lat, lng float64, seed uint64) *SimulatedSource {
	return &SimulatedSource{
		WatchEvery: time.Second,
		MaxLatency: 200 * time.Millisecond,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		lat:        lat,
		lng:        lng,
		watches:    make(map[WatchID]chan struct{}),
	}
}

// WatchPosition reports a new position every WatchEvery until cleared.
func (s *SimulatedSource) WatchPosition(onPosition func(Position), onError func(error), opts Options) WatchID {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	done := make(chan struct{})
	s.watches[id] = done
	every := s.WatchEvery
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p, err := s.next(opts)
				select {
				case <-done:
					return
				default:
				}
				deliver(p, err, onPosition, onError)
			}
		}
	}()
	return id
}

// ClearWatch stops a watch. Unknown ids are ignored.
func (s *SimulatedSource) ClearWatch(id WatchID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if done, ok := s.watches[id]; ok {
		close(done)
		delete(s.watches, id)
	}
}

// GetCurrentPosition delivers one position after a simulated latency.
func (s *SimulatedSource) GetCurrentPosition(onPosition func(Position), onError func(error), opts Options) {
	go func() {
		p, err := s.next(opts)
		deliver(p, err, onPosition, onError)
	}()
}

// ActiveWatches reports how many watches are registered.
func (s *SimulatedSource) ActiveWatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}

func deliver(p Position, err error, onPosition func(Position), onError func(error)) {
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onPosition != nil {
		onPosition(p)
	}
}

// next advances the walk and produces one reading or error.
func (s *SimulatedSource) next(opts Options) (Position, error) {
	s.mu.Lock()
	var latency time.Duration
	if s.MaxLatency > 0 {
		latency = time.Duration(s.rng.Int64N(int64(s.MaxLatency)))
	}
	failed := s.rng.Float64() < s.ErrorRate
	code := PositionUnavailable
	if s.rng.IntN(2) == 0 {
		code = Timeout
	}

	// roughly up to 10 m per step
	s.lat += (s.rng.Float64() - 0.5) * 0.0002
	s.lng += (s.rng.Float64() - 0.5) * 0.0002
	accuracy := 5 + s.rng.Float64()*60
	if opts.HighAccuracy {
		accuracy = 3 + s.rng.Float64()*15
	}
	speed := s.rng.Float64() * 15
	p := Position{
		Latitude:  s.lat,
		Longitude: s.lng,
		Accuracy:  accuracy,
		Speed:     &speed,
	}
	s.mu.Unlock()

	if opts.Timeout > 0 && latency > opts.Timeout {
		time.Sleep(opts.Timeout)
		return Position{}, &PositionError{Code: Timeout, Message: "simulated fix took too long"}
	}
	time.Sleep(latency)

	if failed {
		return Position{}, &PositionError{Code: code, Message: "simulated failure"}
	}
	p.Timestamp = time.Now()
	return p, nil
}
