package store

import "sync"

// Locks serializes profile updates per user. The zero value is ready to use.
type Locks struct {
	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// Lock blocks until userID is free and returns the function that frees it.
func (l *Locks) Lock(userID string) (unlock func()) {
	l.mu.Lock()
	if l.users == nil {
		l.users = make(map[string]*sync.Mutex)
	}
	m, ok := l.users[userID]
	if !ok {
		m = &sync.Mutex{}
		l.users[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
