package store

import (
	"sync"

	"github.com/raptor1820/georloctesting/internal/models"
)

// DefaultCapacity is the number of records kept when no capacity is configured.
const DefaultCapacity = 1000

// LocationStore is the bounded log the controllers read and write.
type LocationStore interface {
	Append(loc models.Location)
	List() []models.Location
	Len() int
}

// MemoryStore keeps the most recent locations in arrival order.
// Once full, every append evicts the oldest record.
type MemoryStore struct {
	mu        sync.Mutex
	capacity  int
	locations []models.Location
}

// NewMemoryStore returns an empty store. A non-positive capacity falls back
// to DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity:  capacity,
		locations: make([]models.Location, 0, capacity),
	}
}

// Append adds loc to the end of the log.
func (s *MemoryStore) Append(loc models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations = append(s.locations, loc)
	if over := len(s.locations) - s.capacity; over > 0 {
		// shift in place so the backing array does not grow without bound
		n := copy(s.locations, s.locations[over:])
		clear(s.locations[n:])
		s.locations = s.locations[:n]
	}
}

// List returns a copy of the log, oldest first.
func (s *MemoryStore) List() []models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Location, len(s.locations))
	copy(out, s.locations)
	return out
}

// Len reports how many records are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locations)
}

// Capacity reports the eviction bound.
func (s *MemoryStore) Capacity() int {
	return s.capacity
}
