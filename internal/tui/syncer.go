package tui

import "sync"

// syncer orders saves issued from concurrently running tea.Cmds. Every
// snapshot is stamped with a revision when it is taken; a save whose
// revision is not newer than the last persisted one for the same key is
// skipped, so a stale snapshot never overwrites a newer one.
type syncer struct {
	mu     sync.Mutex
	issued map[string]uint64
	saved  map[string]uint64
}

func newSyncer() *syncer {
	return &syncer{
		issued: make(map[string]uint64),
		saved:  make(map[string]uint64),
	}
}

// next returns the revision for a new snapshot of key.
func (s *syncer) next(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[key]++
	return s.issued[key]
}

// run calls save unless a newer revision of key has already been saved.
func (s *syncer) run(key string, rev uint64, save func() error) (skipped bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev <= s.saved[key] {
		return true, nil
	}
	if err := save(); err != nil {
		return false, err
	}
	s.saved[key] = rev
	return false, nil
}
