package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that recovers from panics.
// The panic is logged at error level with an "error" attribute holding a
// PanicError, so a Sentry-backed logger reports it as an exception with the
// request's session attached. The client receives 500 Internal Server Error.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func Recover(log *slog.Logger, opts ...RecoverOption) Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if err, ok := rv.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rv)
				}

				var stack []byte
				// Allocate buffer only if stack traces are enabled to avoid unnecessary memory allocation
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					n := runtime.Stack(stack, false)
					stack = stack[:n]
				}

				pe := &PanicError{Value: rv, Stack: stack}
				attrs := []any{
					slog.Any("error", pe),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				if stack != nil {
					attrs = append(attrs, slog.String("stack", string(stack)))
				}
				log.ErrorContext(r.Context(), "panic recovered", attrs...)

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
