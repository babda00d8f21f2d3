package utils

import "sync"

// KeyedMutex provides a mutex per key. Entries are reference counted
// and removed once the last holder unlocks, so the map does not grow
// with the key space.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*kmEntry
}

type kmEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: map[uint]*kmEntry{},
	}
}

// Lock acquires the mutex for key and returns the matching unlock
// function. Operations on different keys do not block each other.
func (k *KeyedMutex) Lock(key uint) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &kmEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
