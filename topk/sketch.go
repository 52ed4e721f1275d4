// Package topk wraps a sliding top-k sketch behind a mutex so request
// middleware can feed it concurrently.
package topk

import (
	"sync"

	"github.com/keilerkonzept/topk/sliding"
)

const defaultTickSize = 1000

// ItemCount is one entry of a sketch snapshot.
type ItemCount struct {
	Item  string `json:"item"`
	Count uint32 `json:"count"`
}

// Sketch provides thread-safe access to a sliding sketch instance and
// manages ticking. Keys are endpoint identifiers (method plus path).
type Sketch struct {
	mu       sync.Mutex
	sketch   *sliding.Sketch
	tickSize uint64 // number of increments per tick
	tickReq  uint64 // increments processed since last tick
}

// New creates a sketch tracking the k heaviest keys over windowSize ticks.
// tickSize is how many increments advance the window by one tick; zero
// selects a default.
func New(k, windowSize int, tickSize uint64) *Sketch {
	if tickSize == 0 {
		tickSize = defaultTickSize
	}
	return &Sketch{
		sketch:   sliding.New(k, windowSize),
		tickSize: tickSize,
	}
}

// Incr counts one hit for key, advancing the sliding window every
// tickSize increments.
func (s *Sketch) Incr(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sketch.Incr(key)
	s.tickReq++

	if s.tickReq >= s.tickSize {
		s.sketch.Tick()
		s.tickReq = 0
	}
}

// Snapshot returns the current top-k items sorted by descending count.
func (s *Sketch) Snapshot() []ItemCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.sketch.SortedSlice()
	out := make([]ItemCount, 0, len(items))
	for _, item := range items {
		out = append(out, ItemCount{Item: item.Item, Count: item.Count})
	}
	return out
}
