package monitoring

import (
	"sync"
	"time"
)

// Status collects coarse in-process counters for the health endpoint:
// turn totals, undo totals, live voice sessions, uptime. Prometheus
// carries the real time series; this is the quick snapshot for humans
// and load balancers.
type Status struct {
	mu        sync.RWMutex
	counters  map[string]int64
	startTime time.Time
}

// NewStatus creates a new status tracker
func NewStatus() *Status {
	return &Status{
		counters:  make(map[string]int64),
		startTime: time.Now(),
	}
}

// Bump increments a counter by one
func (s *Status) Bump(name string) {
	s.Add(name, 1)
}

// Add adjusts a counter by delta; negative deltas are fine (open
// session counts go down when a session closes)
func (s *Status) Add(name string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] += delta
}

// Get returns a single counter value
func (s *Status) Get(name string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := s.counters[name]
	return value, exists
}

// Snapshot returns all current counters plus uptime
func (s *Status) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a copy to avoid concurrent map access
	snapshot := make(map[string]interface{}, len(s.counters)+1)
	for k, v := range s.counters {
		snapshot[k] = v
	}
	snapshot["uptime_seconds"] = time.Since(s.startTime).Seconds()

	return snapshot
}

// Reset clears all counters
func (s *Status) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]int64)
}
