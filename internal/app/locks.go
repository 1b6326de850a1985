package app

import "sync"

// customerLocks serializes the read-sum-write recompute sequence per
// customer. Two concurrent mutations on the same customer's
// reservations would otherwise race on the cached points/tier (lost
// update); different customers proceed in parallel. Entries are
// refcounted so the map does not grow with the customer base.
type customerLocks struct {
	mu sync.Mutex
	m  map[string]*custLock
}

type custLock struct {
	mu   sync.Mutex
	refs int
}

func newCustomerLocks() *customerLocks {
	return &customerLocks{m: make(map[string]*custLock)}
}

func (l *customerLocks) lock(id string) {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &custLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()
	e.mu.Lock()
}

func (l *customerLocks) unlock(id string) {
	l.mu.Lock()
	e := l.m[id]
	e.refs--
	if e.refs == 0 {
		delete(l.m, id)
	}
	l.mu.Unlock()
	e.mu.Unlock()
}
