package services

import "sync"

// accountLocks serializes the load-validate-persist sequence per account so
// concurrent debits cannot both pass the funds check against a stale balance.
// Lock entries are never removed; the map is bounded by the account population.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given account id and returns its unlock.
func (l *accountLocks) Lock(id int64) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
