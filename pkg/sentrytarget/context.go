package sentrytarget

import (
	"maps"
	"os"
	"path"
	"strings"
)

// ContextKey is the extras key that holds the serialized context snapshot.
const ContextKey = "CONTEXT"

// Redacted replaces masked values in the context snapshot.
const Redacted = "***"

// Built-in context provider names.
const (
	ContextSession = "session"
	ContextArgv    = "argv"
	ContextEnv     = "env"
)

// DefaultContextKeys are snapshotted when no context keys are configured.
var DefaultContextKeys = []string{ContextSession}

// DefaultMaskVars are the mask rules applied when none are configured.
var DefaultMaskVars = []string{
	"session.password",
	"env.SENTRY_DSN",
	"env.*PASSWORD*",
	"env.*SECRET*",
	"env.*TOKEN*",
}

// ContextProvider returns the value of a named context container for a record.
// ok is false when the container is not available.
type ContextProvider func(rec Record) (value any, ok bool)

func builtinProviders() map[string]ContextProvider {
	return map[string]ContextProvider{
		ContextSession: func(rec Record) (any, bool) {
			if rec.Session == nil {
				return nil, false
			}
			return rec.Session.Snapshot(), true
		},
		ContextArgv: func(Record) (any, bool) {
			return append([]string(nil), os.Args...), true
		},
		ContextEnv: func(Record) (any, bool) {
			env := make(map[string]any)
			for _, kv := range os.Environ() {
				if k, v, ok := strings.Cut(kv, "="); ok {
					env[k] = v
				}
			}
			return env, true
		},
	}
}

// extraContext snapshots the configured context containers into a single
// serialized CONTEXT extra. Returns nil when nothing is configured or available.
func (f *Forwarder) extraContext(rec Record) map[string]any {
	if len(f.contextKeys) == 0 {
		return nil
	}

	blocks := make([]string, 0, len(f.contextKeys))
	for _, key := range f.contextKeys {
		value, ok := f.provide(key, rec)
		if !ok {
			continue
		}
		value = maskValue(value, f.masksFor(key))
		blocks = append(blocks, key+" = "+Dump(value))
	}

	if len(blocks) == 0 {
		return nil
	}
	return map[string]any{ContextKey: strings.Join(blocks, "\n\n")}
}

func (f *Forwarder) provide(key string, rec Record) (value any, ok bool) {
	provider, found := f.providers[key]
	if !found {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("context provider panicked", "key", key, "panic", r)
			f.metrics.failed("context")
			value, ok = nil, false
		}
	}()
	return provider(rec)
}

// masksFor returns the mask paths that apply under key, split into segments.
func (f *Forwarder) masksFor(key string) [][]string {
	var out [][]string
	for _, rule := range f.maskVars {
		head, rest, found := strings.Cut(rule, ".")
		if !found || head != key {
			continue
		}
		out = append(out, strings.Split(rest, "."))
	}
	return out
}

// maskValue returns v with every value matched by a mask path replaced by
// Redacted. Maps along a matched path are copied; v itself is never modified.
func maskValue(v any, masks [][]string) any {
	for _, segs := range masks {
		v = maskPath(v, segs)
	}
	return v
}

func maskPath(v any, segs []string) any {
	if len(segs) == 0 {
		return Redacted
	}

	switch m := v.(type) {
	case map[string]any:
		var out map[string]any
		for k, child := range m {
			if !matchSegment(segs[0], k) {
				continue
			}
			if out == nil {
				out = maps.Clone(m)
			}
			out[k] = maskPath(child, segs[1:])
		}
		if out == nil {
			return m
		}
		return out
	case map[string]string:
		if len(segs) != 1 {
			return m
		}
		var out map[string]string
		for k := range m {
			if !matchSegment(segs[0], k) {
				continue
			}
			if out == nil {
				out = maps.Clone(m)
			}
			out[k] = Redacted
		}
		if out == nil {
			return m
		}
		return out
	}
	return v
}

func matchSegment(pattern, key string) bool {
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}
