// Package logger provides structured logging with context extraction and Sentry integration.
//
// It builds on log/slog: a JSON stream on stdout fanned out to a
// [sentrytarget.Target] that turns records into Sentry events, with context
// extractors enriching both.
//
// # Basic Usage
//
//	log := logger.New(logger.WithContextExtractors(
//		logger.SessionExtractor(),
//		logger.TraceExtractor(),
//	))
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// {"level":"INFO","msg":"request processed","status":200,"user_id":"u-1"}
//
// # Sentry Integration
//
//	log, shutdown := logger.NewWithSentry(logger.SentryConfig{
//		Target: sentrytarget.Config{
//			DSN:     os.Getenv("SENTRY_DSN"),
//			Release: sentrytarget.ReleaseAuto,
//		},
//		MinLevel: slog.LevelWarn,
//	})
//	defer shutdown(context.Background())
//
//	log.ErrorContext(ctx, "payment failed", "error", err)
//
// Records at or above MinLevel are buffered and exported every FlushInterval.
// An "error" attribute makes the record an exception; other records become
// messages. With Logs set, the same records also go to Sentry Logs.
//
// If the DSN is empty or the client cannot be initialized, the logger falls
// back to stdout only, so the same code path works in development.
//
// # Context Extractors
//
// A ContextExtractor is called on every log call:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors decorate every destination. On Sentry, extracted attributes
// become event extras for error records and part of the message body for
// others. The Sentry handler also reads the session and span from the
// context itself.
package logger
