package scheduling

import "sync"

// coachLocks hands out one RWMutex per coach. Entries are reference counted and
// removed once no goroutine holds or waits on them.
type coachLocks struct {
	mu      sync.Mutex
	entries map[string]*coachLock
}

type coachLock struct {
	sync.RWMutex
	refs int
}

func newCoachLocks() *coachLocks {
	return &coachLocks{entries: make(map[string]*coachLock)}
}

func (l *coachLocks) acquire(coachID string) *coachLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[coachID]
	if !ok {
		e = &coachLock{}
		l.entries[coachID] = e
	}
	e.refs++
	return e
}

func (l *coachLocks) release(coachID string, e *coachLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, coachID)
	}
}

// Lock takes the coach's write lock and returns its release function.
func (l *coachLocks) Lock(coachID string) func() {
	e := l.acquire(coachID)
	e.Lock()
	return func() {
		e.Unlock()
		l.release(coachID, e)
	}
}

// RLock takes the coach's read lock and returns its release function.
func (l *coachLocks) RLock(coachID string) func() {
	e := l.acquire(coachID)
	e.RLock()
	return func() {
		e.RUnlock()
		l.release(coachID, e)
	}
}

func (l *coachLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
