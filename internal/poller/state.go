package poller

import (
	"sync"
	"time"
)

// State is the scheduler's per-wallet bookkeeping: the last checkpoint and
// whether a poll is currently running. It lives as long as the Poller.
type State struct {
	mu          sync.Mutex
	checkpoints map[string]time.Time
	inflight    map[string]struct{}
}

// NewState creates empty bookkeeping.
func NewState() *State {
	return &State{
		checkpoints: make(map[string]time.Time),
		inflight:    make(map[string]struct{}),
	}
}

// Checkpoint returns the time up to which wallet was last fetched.
func (s *State) Checkpoint(wallet string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.checkpoints[wallet]
	return t, ok
}

// SetCheckpoint records the end of a fetch window.
func (s *State) SetCheckpoint(wallet string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[wallet] = t
}

// TryAcquire marks wallet in flight. It returns false if it already was.
func (s *State) TryAcquire(wallet string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[wallet]; busy {
		return false
	}
	s.inflight[wallet] = struct{}{}
	return true
}

// Release clears the in-flight mark.
func (s *State) Release(wallet string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, wallet)
}

// InFlight returns the number of wallets being polled.
func (s *State) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Retain forgets checkpoints of wallets that are no longer tracked, so a
// wallet tracked again later starts from the lookback window.
func (s *State) Retain(wallets []string) {
	keep := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		keep[w] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.checkpoints {
		if _, ok := keep[w]; !ok {
			if _, busy := s.inflight[w]; !busy {
				delete(s.checkpoints, w)
			}
		}
	}
}
