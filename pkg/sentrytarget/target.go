package sentrytarget

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// DefaultFlushInterval is the period Run uses when none is given.
const DefaultFlushInterval = 5 * time.Second

// Exporter receives batches of records in the order they were collected.
type Exporter interface {
	Export(records []Record)
}

// flusher is satisfied by *sentry.Hub.
type flusher interface {
	Flush(timeout time.Duration) bool
}

// Target buffers log records and hands them to an Exporter in batches.
// It filters by level and category and exports when the buffer reaches the
// export interval, on Flush, or on a final Collect.
//
// Target is safe for concurrent use; exports are serialized so batches
// reach the exporter in collection order.
type Target struct {
	exporter       Exporter
	flusher        flusher
	hub            *sentry.Hub
	categories     []string
	except         []string
	buf            []Record
	exportInterval int
	levels         Level

	mu       sync.Mutex // guards buf
	exportMu sync.Mutex // serializes exports
}

// TargetOption configures a Target.
type TargetOption func(*Target)

// WithLevels restricts collected records to the given level mask.
// Zero (the default) accepts every level.
func WithLevels(levels ...Level) TargetOption {
	return func(t *Target) {
		t.levels = 0
		for _, l := range levels {
			t.levels |= l
		}
	}
}

// WithCategories restricts collected records to matching categories.
// A trailing "*" matches by prefix, e.g. "app.*".
func WithCategories(categories ...string) TargetOption {
	return func(t *Target) {
		t.categories = categories
	}
}

// WithExcept drops records whose category matches, using the same rules as WithCategories.
func WithExcept(categories ...string) TargetOption {
	return func(t *Target) {
		t.except = categories
	}
}

// WithExportInterval sets how many buffered records trigger an export.
// Values below 1 export every record immediately.
// Default: 1000.
func WithExportInterval(n int) TargetOption {
	return func(t *Target) {
		t.exportInterval = n
	}
}

// NewTarget creates a Target exporting to exporter.
func NewTarget(exporter Exporter, opts ...TargetOption) *Target {
	t := &Target{
		exporter:       exporter,
		exportInterval: DefaultExportInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// New assembles a Sentry-backed Target from cfg: it initializes the client,
// creates a Forwarder with the enrichment settings (opts override them) and
// applies the level and category filters.
func New(cfg Config, opts ...Option) (*Target, error) {
	topts, err := cfg.targetOptions()
	if err != nil {
		return nil, err
	}

	hub, err := NewHub(cfg)
	if err != nil {
		return nil, err
	}

	fwd := NewForwarder(hub, append(cfg.forwarderOptions(), opts...)...)
	t := NewTarget(fwd, topts...)
	t.flusher = hub
	t.hub = hub
	return t, nil
}

// Hub returns the Sentry hub created by New, or nil for targets built with NewTarget.
func (t *Target) Hub() *sentry.Hub {
	return t.hub
}

// Collect buffers the records that pass the filters. The buffer is exported
// when final is true or when it reaches the export interval.
func (t *Target) Collect(records []Record, final bool) {
	t.mu.Lock()
	for _, rec := range records {
		if t.accepts(rec) {
			t.buf = append(t.buf, rec)
		}
	}
	full := len(t.buf) > 0 && len(t.buf) >= t.exportInterval
	t.mu.Unlock()

	if final || full {
		t.Flush()
	}
}

// Flush exports everything buffered so far.
func (t *Target) Flush() {
	t.exportMu.Lock()
	defer t.exportMu.Unlock()

	t.mu.Lock()
	batch := t.buf
	t.buf = nil
	t.mu.Unlock()

	if len(batch) > 0 {
		t.exporter.Export(batch)
	}
}

// Len returns the number of buffered records.
func (t *Target) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buf)
}

// Run flushes the buffer every interval until ctx is done, then flushes once more.
// A non-positive interval means DefaultFlushInterval.
func (t *Target) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Flush()
			return nil
		case <-ticker.C:
			t.Flush()
		}
	}
}

// Close flushes the buffer and waits up to timeout for the Sentry client
// to deliver queued events.
func (t *Target) Close(timeout time.Duration) error {
	t.Flush()
	if t.flusher != nil && !t.flusher.Flush(timeout) {
		return ErrFlushTimeout
	}
	return nil
}

func (t *Target) accepts(rec Record) bool {
	if t.levels != 0 && t.levels&rec.Level == 0 {
		return false
	}
	if len(t.categories) > 0 && !matchCategory(t.categories, rec.Category) {
		return false
	}
	return !matchCategory(t.except, rec.Category)
}

func matchCategory(patterns []string, category string) bool {
	for _, p := range patterns {
		if p == category {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok && strings.HasPrefix(category, prefix) {
			return true
		}
	}
	return false
}
