package services

import (
	"sync"

	"github.com/google/uuid"
)

// UserLocker serializes cart mutations and checkout per user. Different
// users get independent mutexes and never contend. One instance is shared
// between the cart and order services. Mutexes are never evicted, so the
// map grows with the number of distinct users the process has served; a
// mutex is two words, which keeps that bounded by the user table size.
type UserLocker struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewUserLocker() *UserLocker {
	return &UserLocker{}
}

func (l *UserLocker) Lock(userID uuid.UUID) {
	mu, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (l *UserLocker) Unlock(userID uuid.UUID) {
	mu, ok := l.locks.Load(userID)
	if !ok {
		return
	}
	mu.(*sync.Mutex).Unlock()
}
