// Package sentrytarget forwards application log records to Sentry.
//
// Records are buffered by a [Target], filtered by level and category, and
// exported in batches to a [Forwarder]. For every record the forwarder
// clears a [Scope], enriches it and captures one Sentry event:
//
//  1. user attributes of the identity behind the record's session
//  2. a CONTEXT extra with a masked snapshot of configured containers
//  3. the severity mapped by [ConvertLevel]
//  4. a "category" tag (plus trace_id/span_id when the record has a span)
//  5. an exception for [Error] payloads, a message for everything else
//
// # Basic Usage
//
//	target, err := sentrytarget.New(sentrytarget.Config{
//		DSN:     os.Getenv("SENTRY_DSN"),
//		Release: sentrytarget.ReleaseAuto,
//	})
//	if err != nil {
//		return err
//	}
//	defer target.Close(2 * time.Second)
//
//	log := slog.New(sentrytarget.NewHandler(target, &sentrytarget.HandlerOptions{
//		Level: slog.LevelWarn,
//	}))
//	log.ErrorContext(ctx, "charge failed", "error", err)
//
// With an empty DSN the Sentry client accepts and drops every event, so the
// same wiring is safe in development.
//
// # Payloads
//
// A record's payload is one of [Text], [Error] or [Structured]. Structured
// payloads may carry reserved keys:
//
//	sentrytarget.Structured{
//		"msg":   "quota exceeded",
//		"tags":  map[string]string{"plan": "free"},
//		"extra": map[string]any{"used": 1024},
//	}
//
// "tags" and "extra" are moved into the scope; a lone "msg" is sent as the
// message text. Any other shape is rendered with [Dump].
//
// # Extra Callback
//
// [WithExtraCallback] installs a hook that sees every record together with
// its base extras. Use [ExtraFunc] for hooks whose result is not always a map;
// non-map results are wrapped as {"extra": Dump(v)}.
//
// # Concurrency
//
// [Forwarder.Export] builds its own scope per call, but ordering across
// concurrent calls is not defined. [Target] serializes exports and is the
// intended entry point for concurrent loggers.
package sentrytarget
