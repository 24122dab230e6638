package logger

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/forge-sentry/pkg/sentrytarget"
)

// DefaultFlushInterval is how often buffered records are exported to Sentry.
const DefaultFlushInterval = sentrytarget.DefaultFlushInterval

// defaultShutdownTimeout bounds event delivery when the shutdown context has no deadline.
const defaultShutdownTimeout = 2 * time.Second

// noEventLevel keeps sentryslog from creating issues; the target owns events.
const noEventLevel = slog.Level(math.MaxInt32)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	Category string `env:"SENTRY_CATEGORY" envDefault:"application" yaml:"category"`

	Target sentrytarget.Config `yaml:"target"`

	// MinLevel determines which log levels are sent to Sentry (e.g. slog.LevelWarn for warnings+errors).
	MinLevel slog.Level `env:"SENTRY_MIN_LEVEL" envDefault:"WARN" yaml:"min_level"`

	// FlushInterval is how often buffered records are exported. Default: 5s.
	FlushInterval time.Duration `env:"SENTRY_FLUSH_INTERVAL" envDefault:"5s" yaml:"flush_interval"`

	// Logs additionally ships every entry at or above MinLevel to Sentry Logs.
	Logs bool `env:"SENTRY_ENABLE_LOGS" yaml:"logs"`
}

// ShutdownFunc flushes pending records and waits for delivery.
type ShutdownFunc func(ctx context.Context) error

// New creates a JSON-formatted logger.
func New(opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return slog.New(o.withExtractors(o.stdoutHandler()))
}

// NewNope creates a no-op logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewWithSentry creates a logger that writes JSON logs and forwards records
// at or above cfg.MinLevel to Sentry. If the DSN is empty or the client cannot
// be initialized, only the JSON stream is enabled.
//
// The returned ShutdownFunc must be called before exit to flush buffered records.
func NewWithSentry(cfg SentryConfig, opts ...Option) (*slog.Logger, ShutdownFunc) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	stdout := o.stdoutHandler()
	fallback := slog.New(o.withExtractors(stdout))

	if cfg.Target.DSN == "" {
		return fallback, noopShutdown
	}

	target, shutdown, err := startTarget(cfg, o, fallback)
	if err != nil {
		fallback.Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return fallback, noopShutdown
	}

	handlers := fanout{
		stdout,
		sentrytarget.NewHandler(target, &sentrytarget.HandlerOptions{
			Level:    cfg.MinLevel,
			Category: cfg.Category,
		}),
	}
	if cfg.Logs {
		hubCtx := sentry.SetHubOnContext(context.Background(), target.Hub())
		handlers = append(handlers, sentryslog.Option{
			EventLevel: []slog.Level{noEventLevel},
			LogLevel:   levelsFrom(cfg.MinLevel),
		}.NewSentryHandler(hubCtx))
	}

	// Extractors wrap the fan-out so their attributes reach Sentry as well.
	return slog.New(o.withExtractors(handlers)), shutdown
}

// startTarget creates the Sentry target and its flush loop.
func startTarget(cfg SentryConfig, o *options, fallback *slog.Logger) (*sentrytarget.Target, ShutdownFunc, error) {
	if cfg.Logs {
		cfg.Target.Options.EnableLogs = true
	}

	targetOpts := append([]sentrytarget.Option{sentrytarget.WithLogger(fallback)}, o.targetOpts...)
	target, err := sentrytarget.New(cfg.Target, targetOpts...)
	if err != nil {
		return nil, nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return target.Run(gctx, cfg.FlushInterval) })

	shutdown := func(ctx context.Context) error {
		cancel()
		if err := g.Wait(); err != nil {
			return err
		}
		timeout := defaultShutdownTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		return target.Close(timeout)
	}

	return target, shutdown, nil
}

func noopShutdown(context.Context) error { return nil }

func (o *options) stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(o.output, &slog.HandlerOptions{Level: o.level})
}

func (o *options) withExtractors(h slog.Handler) slog.Handler {
	return WithExtractors(h, o.extractors...)
}

func levelsFrom(minLevel slog.Level) []slog.Level {
	var out []slog.Level
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l >= minLevel {
			out = append(out, l)
		}
	}
	return out
}
