package memory

import (
	"sync"
	"time"

	"github.com/liemdt/zbot/pkg/message"
)

// conversation holds the bounded history for a single key.
type conversation struct {
	turns      []Turn
	lastActive time.Time
}

// InMemoryStore is a thread-safe, in-memory ConversationStore.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[message.Key]*conversation

	// now is injectable for testing. Defaults to time.Now.
	now func() time.Time
}

// NewInMemoryStore creates a new empty conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[message.Key]*conversation),
		now:           time.Now,
	}
}

// Compile-time interface check.
var _ ConversationStore = (*InMemoryStore)(nil)

// Append records a completed exchange and evicts beyond MaxTurns.
func (s *InMemoryStore) Append(key message.Key, userText, botText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[key]
	if !ok {
		c = &conversation{}
		s.conversations[key] = c
	}

	now := s.now()
	c.turns = append(c.turns, Turn{UserText: userText, BotText: botText, Timestamp: now})
	c.lastActive = now

	if overflow := len(c.turns) - MaxTurns; overflow > 0 {
		c.turns = append(c.turns[:0:0], c.turns[overflow:]...)
	}
	return nil
}

// Recent returns up to n most recent turns in chronological order.
func (s *InMemoryStore) Recent(key message.Key, n int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[key]
	if !ok || n <= 0 {
		return nil, nil
	}

	turns := c.turns
	if n < len(turns) {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear removes the conversation entirely.
func (s *InMemoryStore) Clear(key message.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, key)
	return nil
}

// Len returns the number of turns stored for the conversation.
func (s *InMemoryStore) Len(key message.Key) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[key]
	if !ok {
		return 0, nil
	}
	return len(c.turns), nil
}

// Prune removes conversations idle longer than maxIdle and returns how many
// were removed. Called periodically by the cron scheduler.
func (s *InMemoryStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for key, c := range s.conversations {
		if now.Sub(c.lastActive) > maxIdle {
			delete(s.conversations, key)
			pruned++
		}
	}
	return pruned
}
