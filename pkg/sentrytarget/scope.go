package sentrytarget

import (
	"fmt"
	"maps"

	"github.com/getsentry/sentry-go"
)

// Scope holds the enrichment applied to one outgoing event: severity,
// user attributes, tags and extras. Tags and extras merge on every Set call.
//
// A Scope is not safe for concurrent use. The forwarder owns one per Export
// call and clears it before each record.
type Scope struct {
	user   map[string]any
	tags   map[string]string
	extras map[string]any
	level  sentry.Level
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Clear removes level, user, tags and extras.
func (s *Scope) Clear() {
	*s = Scope{}
}

// SetLevel sets the event severity.
func (s *Scope) SetLevel(level sentry.Level) {
	s.level = level
}

// SetUser replaces the user attributes.
func (s *Scope) SetUser(attrs map[string]any) {
	s.user = maps.Clone(attrs)
}

// SetTags merges tags into the scope.
func (s *Scope) SetTags(tags map[string]string) {
	if len(tags) == 0 {
		return
	}
	if s.tags == nil {
		s.tags = make(map[string]string, len(tags))
	}
	maps.Copy(s.tags, tags)
}

// SetExtras merges extras into the scope.
func (s *Scope) SetExtras(extras map[string]any) {
	if len(extras) == 0 {
		return
	}
	if s.extras == nil {
		s.extras = make(map[string]any, len(extras))
	}
	maps.Copy(s.extras, extras)
}

// Level returns the event severity, or "" if unset.
func (s *Scope) Level() sentry.Level { return s.level }

// User returns a copy of the user attributes.
func (s *Scope) User() map[string]any { return maps.Clone(s.user) }

// Tags returns a copy of the tags.
func (s *Scope) Tags() map[string]string { return maps.Clone(s.tags) }

// Extras returns a copy of the extras.
func (s *Scope) Extras() map[string]any { return maps.Clone(s.extras) }

// IsEmpty reports whether nothing has been set since the last Clear.
func (s *Scope) IsEmpty() bool {
	return s.level == "" && len(s.user) == 0 && len(s.tags) == 0 && len(s.extras) == 0
}

// apply copies the enrichment onto a Sentry scope.
func (s *Scope) apply(dst *sentry.Scope) {
	dst.Clear()
	if s.level != "" {
		dst.SetLevel(s.level)
	}
	if s.user != nil {
		dst.SetUser(sentryUser(s.user))
	}
	if len(s.tags) > 0 {
		dst.SetTags(s.tags)
	}
	if len(s.extras) > 0 {
		dst.SetExtras(s.extras)
	}
}

// sentryUser maps attribute names onto sentry.User fields.
// Unknown attributes land in User.Data.
func sentryUser(attrs map[string]any) sentry.User {
	var u sentry.User
	for name, v := range attrs {
		if v == nil {
			continue
		}
		str := stringify(v)
		switch name {
		case "id":
			u.ID = str
		case "username":
			u.Username = str
		case "email":
			u.Email = str
		case "name":
			u.Name = str
		case "ip_address":
			u.IPAddress = str
		default:
			if u.Data == nil {
				u.Data = make(map[string]string)
			}
			u.Data[name] = str
		}
	}
	return u
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case *string:
		if s == nil {
			return ""
		}
		return *s
	}
	return fmt.Sprint(v)
}
