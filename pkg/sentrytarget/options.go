package sentrytarget

import "log/slog"

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithUserAttributes sets the identity attributes reported as user context.
// "id" is always reported. Calling it with no names disables user context.
// Default: id, username, email.
func WithUserAttributes(names ...string) Option {
	return func(f *Forwarder) {
		f.userAttrs = names
	}
}

// WithContextKeys sets the context containers snapshotted into the CONTEXT
// extra, in order. Calling it with no keys disables the snapshot.
// Default: session.
func WithContextKeys(keys ...string) Option {
	return func(f *Forwarder) {
		f.contextKeys = keys
	}
}

// WithMaskVars sets the mask rules applied to the context snapshot.
// A rule is "<key>.<path>" where each path segment may use path.Match wildcards,
// e.g. "session.password" or "env.*_TOKEN".
func WithMaskVars(rules ...string) Option {
	return func(f *Forwarder) {
		f.maskVars = rules
	}
}

// WithContextProvider registers or replaces a named context container.
func WithContextProvider(key string, p ContextProvider) Option {
	return func(f *Forwarder) {
		if p == nil {
			delete(f.providers, key)
			return
		}
		f.providers[key] = p
	}
}

// WithExtraCallback sets the per-record extras hook. Nil disables it.
func WithExtraCallback(cb ExtraCallback) Option {
	return func(f *Forwarder) {
		f.extraCallback = cb
	}
}

// WithIdentityResolver sets how a session is resolved to an identity.
// Nil disables user context. Default: SessionIdentity.
func WithIdentityResolver(r IdentityResolver) Option {
	return func(f *Forwarder) {
		f.resolveIdentity = r
	}
}

// WithLogger sets the logger for the forwarder's own diagnostics,
// such as a recovered panic in an extra callback.
// It must not route back into the same target.
func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMetrics counts captured events and recovered enrichment failures.
func WithMetrics(m *Metrics) Option {
	return func(f *Forwarder) {
		f.metrics = m
	}
}
