package market

import (
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// Pool names a family of instruments.
type Pool string

const (
	PoolPerp Pool = "perp"
	PoolSpot Pool = "spot"
)

// snapshotState holds the last known names per pool.
type snapshotState struct {
	mu    sync.Mutex
	names map[Pool]mapset.Set[string]
}

func newSnapshotState() *snapshotState {
	return &snapshotState{names: make(map[Pool]mapset.Set[string])}
}

// observe replaces the pool's snapshot and returns names absent from the
// previous one, sorted. The first observation returns nil.
func (s *snapshotState) observe(pool Pool, names []string) []string {
	current := mapset.NewSet(names...)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.names[pool]
	s.names[pool] = current
	if !ok {
		return nil
	}

	added := current.Difference(prev).ToSlice()
	if len(added) == 0 {
		return nil
	}
	sort.Strings(added)
	return added
}

// size returns the snapshot size of pool and whether it has a baseline.
func (s *snapshotState) size(pool Pool) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.names[pool]
	if !ok {
		return 0, false
	}
	return set.Cardinality(), true
}
