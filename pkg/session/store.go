package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for session persistence.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process Store, suitable for tests and examples.
type MemoryStore struct {
	byToken map[string]*Session
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byToken: make(map[string]*Session)}
}

// Start creates and persists a fresh session with random ID and token.
func (m *MemoryStore) Start(ctx context.Context, ttl time.Duration) (*Session, error) {
	s := New(uuid.NewString(), uuid.NewString(), time.Now().Add(ttl))
	if err := m.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Create persists a new session.
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s.Token == "" {
		return ErrInvalidToken
	}
	m.mu.Lock()
	m.byToken[s.Token] = s
	m.mu.Unlock()
	return nil
}

// Get retrieves a session by its token.
func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	m.mu.RLock()
	s, ok := m.byToken[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return s, nil
}

// Delete removes a session by its ID.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.byToken {
		if s.ID == id {
			delete(m.byToken, token)
			return nil
		}
	}
	return ErrNotFound
}
