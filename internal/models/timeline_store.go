package models

import (
	"sync"
	"time"
)

// TimelineStore holds the last good computed timeline and the raw fetch
// it was built from. Published snapshots are immutable, so readers get
// the pointer itself; a refresh swaps the whole graph atomically.
type TimelineStore struct {
	mu      sync.RWMutex
	data    *TimelineData
	raw     *FetchResult
	builtAt time.Time
}

func NewTimelineStore() *TimelineStore {
	return &TimelineStore{}
}

func (s *TimelineStore) Get() (*TimelineData, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.builtAt
}

func (s *TimelineStore) Raw() *FetchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw
}

func (s *TimelineStore) Put(data *TimelineData, raw *FetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.raw = raw
	s.builtAt = time.Now()
}

// PutRestored installs a snapshot loaded from disk without touching the
// raw fetch, so a restart serves stale-but-valid data until the first
// successful refresh.
func (s *TimelineStore) PutRestored(data *TimelineData, builtAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		return
	}
	s.data = data
	s.builtAt = builtAt
}
