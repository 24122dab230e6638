package sentrytarget

import (
	"io"
	"log/slog"
	"maps"

	"github.com/getsentry/sentry-go"
)

// Hub is the part of *sentry.Hub the forwarder sends through.
type Hub interface {
	WithScope(f func(scope *sentry.Scope))
	CaptureException(exception error) *sentry.EventID
	CaptureMessage(message string) *sentry.EventID
}

// Forwarder turns log records into Sentry events. Each record is enriched
// with severity, user, tags and extras, then captured as an exception
// (Error payloads) or a message (everything else).
type Forwarder struct {
	hub             Hub
	logger          *slog.Logger
	resolveIdentity IdentityResolver
	extraCallback   ExtraCallback
	metrics         *Metrics
	providers       map[string]ContextProvider
	userAttrs       []string
	contextKeys     []string
	maskVars        []string
}

// NewForwarder creates a forwarder that captures events on hub.
func NewForwarder(hub Hub, opts ...Option) *Forwarder {
	f := &Forwarder{
		hub:             hub,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		resolveIdentity: SessionIdentity,
		providers:       builtinProviders(),
		userAttrs:       DefaultUserAttributes,
		contextKeys:     DefaultContextKeys,
		maskVars:        DefaultMaskVars,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Export sends records in order. Every record starts from a cleared scope,
// so enrichment never carries over from one record to the next.
//
// Export never fails on a malformed record. Only transport-level behaviour
// of the Sentry client (dropping, queuing) applies to what is sent.
func (f *Forwarder) Export(records []Record) {
	scope := NewScope()
	for _, rec := range records {
		f.export(scope, rec)
	}
}

func (f *Forwarder) export(scope *Scope, rec Record) {
	scope.Clear()

	if user, ok := f.userAttributes(rec); ok {
		scope.SetUser(user)
	}
	scope.SetExtras(f.extraContext(rec))
	scope.SetLevel(ConvertLevel(rec.Level))
	scope.SetTags(recordTags(rec))

	if p, ok := rec.Payload.(Error); ok && p.Err != nil {
		scope.SetExtras(p.Fields)
		scope.SetExtras(f.runExtraCallback(rec, map[string]any{}))
		f.capture(scope, kindException, func(h Hub) { h.CaptureException(p.Err) })
		return
	}

	msg := f.convertMessage(rec, scope)
	f.capture(scope, kindMessage, func(h Hub) { h.CaptureMessage(msg) })
}

func (f *Forwarder) capture(scope *Scope, kind string, send func(Hub)) {
	f.hub.WithScope(func(s *sentry.Scope) {
		scope.apply(s)
		send(f.hub)
	})
	f.metrics.captured(scope.Level(), kind)
}

func recordTags(rec Record) map[string]string {
	tags := map[string]string{"category": rec.Category}
	if rec.Trace.IsValid() {
		tags["trace_id"] = rec.Trace.TraceID
		tags["span_id"] = rec.Trace.SpanID
	}
	return tags
}

// convertMessage normalizes the payload to the text that is sent.
// Structured payloads install their "tags" and "extra" keys into scope;
// a lone "msg" key is unwrapped. Anything that is not text is dumped.
func (f *Forwarder) convertMessage(rec Record, scope *Scope) string {
	var body any
	switch p := rec.Payload.(type) {
	case Text:
		return string(p)
	case Error:
		body = p.Err
	case Structured:
		body = f.unpackStructured(rec, p, scope)
	default:
		body = p
	}

	if s, ok := body.(string); ok {
		return s
	}
	return Dump(body)
}

func (f *Forwarder) unpackStructured(rec Record, p Structured, scope *Scope) any {
	msg := maps.Clone(map[string]any(p))

	if tags, ok := msg[KeyTags]; ok {
		scope.SetTags(toTags(tags))
		delete(msg, KeyTags)
	}

	if extra, ok := msg[KeyExtra]; ok {
		scope.SetExtras(f.runExtraCallback(rec, maps.Clone(normalizeExtra(extra))))
		delete(msg, KeyExtra)
	}

	if text, ok := msg[KeyMsg]; ok && len(msg) == 1 {
		return text
	}
	return msg
}

func toTags(v any) map[string]string {
	switch t := v.(type) {
	case map[string]string:
		return t
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = stringify(val)
		}
		return out
	case nil:
		return nil
	}
	return map[string]string{KeyTags: stringify(v)}
}
