package sentrytarget

// ExtraCallback augments the extras of a record. It receives the record and
// the base extras (empty for errors, the "extra" key for structured messages)
// and returns the extras to install.
type ExtraCallback func(rec Record, extra map[string]any) map[string]any

// ExtraFunc adapts a callback whose result shape is not known in advance.
// A map result is used as-is; anything else is wrapped as {"extra": Dump(v)}.
func ExtraFunc(fn func(rec Record, extra map[string]any) any) ExtraCallback {
	return func(rec Record, extra map[string]any) map[string]any {
		return normalizeExtra(fn(rec, extra))
	}
}

func normalizeExtra(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Structured:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	}
	return map[string]any{KeyExtra: Dump(v)}
}

// runExtraCallback applies the configured callback to base.
// Without a callback, or if the callback panics, base is returned unchanged.
func (f *Forwarder) runExtraCallback(rec Record, base map[string]any) (extra map[string]any) {
	if f.extraCallback == nil {
		return base
	}

	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("extra callback panicked", "category", rec.Category, "panic", r)
			f.metrics.failed("extra_callback")
			extra = base
		}
	}()
	return f.extraCallback(rec, base)
}
