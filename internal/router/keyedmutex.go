package router

import (
	"sync"

	"github.com/liemdt/zbot/pkg/message"
)

// KeyedMutex provides per-conversation-key mutual exclusion. Two concurrent
// webhook deliveries for the same conversation would otherwise interleave
// reads and writes of history and session step; the handling cycle for a key
// runs under its lock from classification through dispatch.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[message.Key]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates a ready-to-use keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[message.Key]*keyLock)}
}

// Lock acquires the lock for key, blocking until available. The returned
// function releases it; entries are removed once no goroutine holds or waits
// on them, so the map does not grow with conversation count.
func (k *KeyedMutex) Lock(key message.Key) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
