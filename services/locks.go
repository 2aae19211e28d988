package services

import (
	"fmt"
	"sync"
)

// roomLocks serializes the overlap-check-then-insert critical section per
// (hotel, room number). The database row locks inside the transaction are the
// authoritative guard; this keeps concurrent local requests for the same room
// from ever racing to BEGIN in the first place.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

func roomLockKey(hotelID uint, roomNumber string) string {
	return fmt.Sprintf("%d/%s", hotelID, roomNumber)
}

// Lock acquires the mutex for the given room and returns its unlock func.
func (rl *roomLocks) Lock(hotelID uint, roomNumber string) func() {
	rl.mu.Lock()
	key := roomLockKey(hotelID, roomNumber)
	m, ok := rl.locks[key]
	if !ok {
		m = &sync.Mutex{}
		rl.locks[key] = m
	}
	rl.mu.Unlock()

	m.Lock()
	return m.Unlock
}
