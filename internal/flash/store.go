package flash

import (
	"context"
	"sync"
	"time"
)

const (
	CategorySuccess = "success"
	CategoryError   = "error"
)

type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Store keeps pending messages per session. Pop returns them in push order
// and removes them.
type Store interface {
	Push(ctx context.Context, sessionID string, msg Message) error
	Pop(ctx context.Context, sessionID string) ([]Message, error)
}

type memoryEntry struct {
	messages []Message
	expires  time.Time
}

// MemoryStore is the in-process Store used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: make(map[string]*memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Push(_ context.Context, sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	entry, ok := s.items[sessionID]
	if !ok {
		entry = &memoryEntry{}
		s.items[sessionID] = entry
	}
	entry.messages = append(entry.messages, msg)
	entry.expires = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	delete(s.items, sessionID)
	if !s.now().Before(entry.expires) {
		return nil, nil
	}
	return entry.messages, nil
}

// sweep drops expired sessions. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.items {
		if !now.Before(entry.expires) {
			delete(s.items, id)
		}
	}
}
