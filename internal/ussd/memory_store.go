package ussd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemorySessionStore keeps sessions in memory, for tests and USE_MEMORY_STORE
// mode. Entries are stored marshaled so Load hands back an independent copy,
// matching the replace-on-save semantics of the Redis store.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemorySessionStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	entry, exists := m.entries[sessionID]
	m.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	// Lazy expiry: discovered on load, no background sweeper
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("session store: failed to unmarshal %s: %w", sessionID, err)
	}
	return &session, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	if session.SessionID == "" {
		return fmt.Errorf("session store: missing session id")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session store: failed to marshal %s: %w", session.SessionID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[session.SessionID] = memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
