package logger

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dmitrymomot/forge-sentry/pkg/sentrytarget"
)

// NewZap creates a JSON zap logger writing to the configured output.
func NewZap(opts ...Option) *zap.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return zap.New(o.zapCore())
}

// NewZapWithSentry is the zap counterpart of NewWithSentry. Entries at or
// above cfg.MinLevel are forwarded to Sentry; the logger name becomes the
// event category.
func NewZapWithSentry(cfg SentryConfig, opts ...Option) (*zap.Logger, ShutdownFunc) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	stdout := zap.New(o.zapCore())
	if cfg.Target.DSN == "" {
		return stdout, noopShutdown
	}

	target, shutdown, err := startTarget(cfg, o, slog.New(o.stdoutHandler()))
	if err != nil {
		stdout.Error("failed to initialize Sentry", zap.Error(err))
		return stdout, noopShutdown
	}

	core := zapcore.NewTee(
		o.zapCore(),
		sentrytarget.NewZapCore(target, zapLevel(cfg.MinLevel)),
	)
	log := zap.New(core)
	if cfg.Category != "" {
		log = log.Named(cfg.Category)
	}
	return log, shutdown
}

func (o *options) zapCore() zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(o.output), zapLevel(o.level))
}

// zapLevel maps a slog level onto the zap scale (slog steps by 4).
func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l >= slog.LevelError:
		return zapcore.ErrorLevel
	case l >= slog.LevelWarn:
		return zapcore.WarnLevel
	case l >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
