package sentrytarget

import (
	"context"
	"log/slog"
	"maps"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/forge-sentry/pkg/session"
)

// HandlerOptions configures the slog handler.
type HandlerOptions struct {
	// Level is the minimum level handled. Default: slog.LevelInfo.
	Level slog.Leveler
	// Category is used for records without a "category" attribute.
	// Default: DefaultCategory.
	Category string
}

// Handler is a slog.Handler that collects records into a Target.
//
// Mapping rules:
//   - the first attribute holding an error makes the record an exception
//   - a top-level "category" string attribute sets the category
//   - "tags" and "extra" groups feed the reserved structured keys
//   - the session and span in the log context are attached to the record
type Handler struct {
	target   *Target
	fields   map[string]any
	level    slog.Leveler
	category string
	groups   []string
	err      error
}

// NewHandler creates a slog handler writing into target.
func NewHandler(target *Target, opts *HandlerOptions) *Handler {
	h := &Handler{
		target:   target,
		level:    slog.LevelInfo,
		category: DefaultCategory,
	}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		if opts.Category != "" {
			h.category = opts.Category
		}
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle converts the slog record and collects it.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	b := h.builder()
	r.Attrs(func(a slog.Attr) bool {
		b.add(h.groups, a)
		return true
	})

	rec := Record{
		Time:     r.Time,
		Level:    levelFromSlog(r.Level),
		Category: b.category,
		Session:  session.FromContext(ctx).Clone(),
		Payload:  buildPayload(r.Message, b.fields, b.err),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		rec.Trace = TraceInfo{TraceID: sc.TraceID().String(), SpanID: sc.SpanID().String()}
	}

	h.target.Collect([]Record{rec}, false)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	b := h.builder()
	for _, a := range attrs {
		b.add(h.groups, a)
	}

	h2 := *h
	h2.fields = b.fields
	h2.category = b.category
	h2.err = b.err
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &h2
}

func (h *Handler) builder() *fieldBuilder {
	return &fieldBuilder{
		fields:   cloneFields(h.fields),
		category: h.category,
		err:      h.err,
	}
}

// fieldBuilder accumulates slog attributes into nested maps.
type fieldBuilder struct {
	fields   map[string]any
	err      error
	category string
}

func (b *fieldBuilder) add(groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if len(groups) == 0 && a.Key == CategoryKey && a.Value.Kind() == slog.KindString {
		b.category = a.Value.String()
		return
	}

	if a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok && b.err == nil {
			b.err = err
			return
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range a.Value.Group() {
			b.add(groups, ga)
		}
		return
	}

	if b.fields == nil {
		b.fields = make(map[string]any)
	}
	dst := b.fields
	for _, g := range groups {
		child, ok := dst[g].(map[string]any)
		if !ok {
			child = make(map[string]any)
			dst[g] = child
		}
		dst = child
	}
	dst[a.Key] = a.Value.Any()
}

// cloneFields deep-copies nested field maps so handlers derived with
// WithAttrs never share mutable state.
func cloneFields(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := maps.Clone(src)
	for k, v := range out {
		if m, ok := v.(map[string]any); ok {
			out[k] = cloneFields(m)
		}
	}
	return out
}

func levelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarning
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelTrace
	}
}
