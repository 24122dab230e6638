package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/forge-sentry/pkg/sentrytarget"
)

// Option configures logger construction.
type Option func(*options)

type options struct {
	output     io.Writer
	extractors []ContextExtractor
	targetOpts []sentrytarget.Option
	level      slog.Level
}

func defaultOptions() *options {
	return &options{
		output: os.Stdout,
		level:  slog.LevelInfo,
	}
}

// WithOutput sets the destination of the JSON log stream.
// Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLevel sets the minimum level of the JSON log stream.
// Default: slog.LevelInfo.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithContextExtractors adds context extractors to the JSON log stream.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithTargetOptions passes forwarder options (extra callback, identity
// resolver, context providers) to the Sentry target.
func WithTargetOptions(opts ...sentrytarget.Option) Option {
	return func(o *options) {
		o.targetOpts = append(o.targetOpts, opts...)
	}
}
