package sentrytarget

import "github.com/dmitrymomot/forge-sentry/pkg/session"

// DefaultUserAttributes are the identity attributes reported when none are configured.
var DefaultUserAttributes = []string{"id", "username", "email"}

// Identity is an authenticated principal that can report attributes by name.
type Identity interface {
	// ID returns the identity's unique key. It may be nil.
	ID() any
	// Attribute looks up an attribute by name.
	Attribute(name string) (any, bool)
}

// IdentityResolver resolves the identity behind an active session.
// It returns nil when the session is not authenticated.
type IdentityResolver func(s *session.Session) Identity

// SessionIdentity resolves authenticated sessions to an identity whose ID
// is the session user ID and whose attributes are the session values.
func SessionIdentity(s *session.Session) Identity {
	if s == nil || !s.IsAuthenticated() {
		return nil
	}
	return sessionIdentity{s: s}
}

type sessionIdentity struct {
	s *session.Session
}

func (i sessionIdentity) ID() any { return *i.s.UserID }

func (i sessionIdentity) Attribute(name string) (any, bool) {
	return i.s.GetValue(name)
}

// userAttributes collects the configured attributes of the identity behind
// the record's session. ok is false when there is no session, no configured
// attribute or no authenticated identity.
func (f *Forwarder) userAttributes(rec Record) (attrs map[string]any, ok bool) {
	if rec.Session == nil || len(f.userAttrs) == 0 || f.resolveIdentity == nil {
		return nil, false
	}

	identity := f.resolveIdentity(rec.Session)
	if identity == nil {
		return nil, false
	}

	attrs = map[string]any{"id": identity.ID()}
	for _, name := range f.userAttrs {
		if name == "id" {
			continue
		}
		v, _ := identity.Attribute(name)
		attrs[name] = v
	}
	return attrs, true
}
