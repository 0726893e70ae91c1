package session

import (
	"sync"
	"time"

	"github.com/liemdt/zbot/pkg/message"
)

// InMemoryStore is a concurrency-safe, in-memory Store. It uses a map with a
// read-write mutex for O(1) lookups. The `now` function is injectable for
// deterministic testing.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[message.Key]*Session

	// now is injectable for testing. Defaults to time.Now.
	now func() time.Time
}

// NewInMemoryStore creates a ready-to-use in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[message.Key]*Session),
		now:      time.Now,
	}
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

// Create starts a new session at StepSubject, replacing any existing one.
func (s *InMemoryStore) Create(key message.Key) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		Key:          key,
		Step:         StepSubject,
		Collected:    make(map[Step]string),
		CreatedAt:    now,
		LastActiveAt: now,
	}
	s.sessions[key] = sess
	return sess
}

// Get returns the session for the key, or nil if none exists.
func (s *InMemoryStore) Get(key message.Key) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[key]
}

// Advance records the answer for the current step and moves to the next.
func (s *InMemoryStore) Advance(key message.Key, answer string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil
	}

	sess.Collected[sess.Step] = answer
	sess.Step = sess.Step.Next()
	sess.LastActiveAt = s.now()
	return sess
}

// Delete removes the session for the key.
func (s *InMemoryStore) Delete(key message.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Prune removes sessions whose idle time exceeds maxIdle.
func (s *InMemoryStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for key, sess := range s.sessions {
		if now.Sub(sess.LastActiveAt) > maxIdle {
			delete(s.sessions, key)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of open sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
