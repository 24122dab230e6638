// Package middlewares provides net/http middleware that feeds request
// context into the Sentry-backed logger.
//
// Every middleware has the func(http.Handler) http.Handler shape and plugs
// straight into chi:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middlewares.RequestID(),
//	    middlewares.Session(store),
//	    middlewares.Recover(log),
//	)
//
// # Request ID
//
// RequestID assigns a unique ID to each request. It checks incoming headers
// for an existing ID or generates a UUID. Pair it with RequestIDExtractor to
// add request_id to every log line:
//
//	log := logger.New(logger.WithContextExtractors(middlewares.RequestIDExtractor()))
//
// # Session
//
// Session reads the token cookie, loads the session from a session.Store and
// attaches it to the request context. Records logged with that context carry
// the session, so Sentry events get the user's id, username and email and a
// masked CONTEXT snapshot of the session values.
//
//	r.Use(middlewares.Session(store, middlewares.WithSessionCookie("sid")))
//
// Unknown or expired tokens leave the request anonymous unless
// WithSessionRequired is set, in which case the middleware responds 401.
//
// # Recover
//
// Recover catches panics, logs them with an "error" attribute holding a
// PanicError and responds 500. Behind a Sentry-backed logger the panic
// becomes an exception event. Place it after Session so the event carries
// the user.
//
//	r.Use(middlewares.Recover(log, middlewares.WithRecoverStackSize(8192)))
package middlewares
