package session

import (
	"errors"
	"maps"
	"time"
)

// Session represents a user session with metadata and arbitrary values.
// Values double as the attribute source for error-report user context
// (e.g. "username", "email").
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time

	UserID *string        // nil = anonymous session
	Values map[string]any // Arbitrary session data
	ID     string         // Unique identifier (typically UUID)
	Token  string         // Cookie token (different from ID for security)
}

// New creates a new session with the given ID and token.
func New(id, token string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Token:     token,
		Values:    make(map[string]any),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

// IsAuthenticated returns true if the session has an associated user.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// Authenticate associates a user with the session.
func (s *Session) Authenticate(userID string) {
	s.UserID = &userID
}

// SetValue stores a value in the session.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
}

// GetValue retrieves a value from the session.
func (s *Session) GetValue(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value from the session.
func (s *Session) DeleteValue(key string) {
	delete(s.Values, key)
}

// Snapshot returns a shallow copy of the session values.
// Never returns nil, so an empty session still reports as an empty map.
func (s *Session) Snapshot() map[string]any {
	out := make(map[string]any, len(s.Values))
	maps.Copy(out, s.Values)
	return out
}

// Clone returns a detached copy of the session: the user ID and values are
// copied, so later changes to s are not visible through the clone.
// Clone of a nil session is nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Values = s.Snapshot()
	if s.UserID != nil {
		id := *s.UserID
		c.UserID = &id
	}
	return &c
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}

	return typed, nil
}
