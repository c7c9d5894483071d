package session

import (
	"encoding/json"
	"sync"
)

// Store is the session backend the cart depends on. It is an explicit
// dependency rather than ambient request state so cart logic can be tested
// against an in-memory backend. Values are JSON round-tripped, which keeps
// the interface portable to an external session store.
type Store interface {
	// Get unmarshals the value stored under key into dest and reports
	// whether the key was present.
	Get(sessionID, key string, dest any) (bool, error)
	Put(sessionID, key string, value any) error
	Forget(sessionID, key string) error
}

// MemoryStore keeps session data in process memory, keyed by the session
// cookie's ID. Good for a single-instance storefront; swap the Store
// implementation to scale out.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]json.RawMessage),
	}
}

func (m *MemoryStore) Get(sessionID, key string, dest any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.sessions[sessionID][key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryStore) Put(sessionID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.sessions[sessionID]
	if !ok {
		values = make(map[string]json.RawMessage)
		m.sessions[sessionID] = values
	}
	values[key] = raw
	return nil
}

func (m *MemoryStore) Forget(sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions[sessionID], key)
	return nil
}
