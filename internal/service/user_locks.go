package service

import "sync"

// UserLocks serializa las mutaciones por cuenta: ningun par de operaciones
// sobre el mismo usuario corre en paralelo, incluidas las acciones admin
// sobre la cuenta de otro.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock toma el mutex del usuario y devuelve su unlock.
func (l *UserLocks) Lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
