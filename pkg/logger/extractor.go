package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/forge-sentry/pkg/session"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// SessionExtractor adds "user_id" for requests with an authenticated session.
func SessionExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		s := session.FromContext(ctx)
		if s == nil || !s.IsAuthenticated() {
			return slog.Attr{}, false
		}
		return slog.String("user_id", *s.UserID), true
	}
}

// TraceExtractor adds a "trace" group with the active span's trace and span IDs.
func TraceExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		sc := trace.SpanContextFromContext(ctx)
		if !sc.IsValid() {
			return slog.Attr{}, false
		}
		return slog.Group("trace",
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		), true
	}
}

// extractingHandler wraps a slog.Handler and injects context-extracted attributes.
// Extraction runs per call so request-scoped values are always fresh.
type extractingHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// WithExtractors decorates next with context extractors.
// Nil extractors are dropped; with none left, next is returned as is.
func WithExtractors(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	if len(clean) == 0 {
		return next
	}
	return &extractingHandler{next: next, extractors: clean}
}

func (h *extractingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *extractingHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *extractingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &extractingHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *extractingHandler) WithGroup(name string) slog.Handler {
	return &extractingHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
