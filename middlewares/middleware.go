package middlewares

import "net/http"

// Middleware wraps an http.Handler. It matches chi's middleware signature.
type Middleware = func(http.Handler) http.Handler
