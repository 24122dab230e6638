package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/forge-sentry/pkg/session"
)

// DefaultSessionCookie is the cookie holding the session token.
const DefaultSessionCookie = "__sid"

// SessionConfig configures the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger // Logs store failures (default: discard)
	CookieName string       // Token cookie name (default: "__sid")
	Required   bool         // Respond 401 when no valid session is found
}

// SessionOption configures SessionConfig.
type SessionOption func(*SessionConfig)

// WithSessionCookie sets the cookie that carries the session token.
func WithSessionCookie(name string) SessionOption {
	return func(cfg *SessionConfig) {
		cfg.CookieName = name
	}
}

// WithSessionLogger sets the logger used for store failures.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(cfg *SessionConfig) {
		cfg.Logger = l
	}
}

// WithSessionRequired rejects requests without a valid session.
func WithSessionRequired() SessionOption {
	return func(cfg *SessionConfig) {
		cfg.Required = true
	}
}

// Session returns middleware that loads the session named by the token
// cookie and attaches it to the request context (see session.FromContext).
// Missing, unknown and expired tokens leave the request without a session.
func Session(store session.Store, opts ...SessionOption) Middleware {
	cfg := &SessionConfig{
		CookieName: DefaultSessionCookie,
		Logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := loadSession(r, store, cfg)
			if s == nil {
				if cfg.Required {
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), s)))
		})
	}
}

func loadSession(r *http.Request, store session.Store, cfg *SessionConfig) *session.Session {
	c, err := r.Cookie(cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	s, err := store.Get(r.Context(), c.Value)
	switch {
	case err == nil:
		return s
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrInvalidToken):
		return nil
	default:
		cfg.Logger.WarnContext(r.Context(), "failed to load session", slog.String("error", err.Error()))
		return nil
	}
}

// SetSessionCookie writes the session token cookie for s.
func SetSessionCookie(w http.ResponseWriter, s *session.Session, name string) {
	if name == "" {
		name = DefaultSessionCookie
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
