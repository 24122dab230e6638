package sentrytarget

import (
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"
)

// eventRecorder collects events from BeforeSend and drops them.
type eventRecorder struct {
	events []*sentry.Event
	mu     sync.Mutex
}

func (r *eventRecorder) Events() []*sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*sentry.Event(nil), r.events...)
}

func newTestHub(t *testing.T) (*sentry.Hub, *eventRecorder) {
	t.Helper()

	rec := &eventRecorder{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		SampleRate: 1.0,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			rec.mu.Lock()
			rec.events = append(rec.events, event)
			rec.mu.Unlock()
			return nil
		},
	})
	require.NoError(t, err)

	return sentry.NewHub(client, sentry.NewScope()), rec
}

// recordingExporter stores exported batches.
type recordingExporter struct {
	batches [][]Record
	mu      sync.Mutex
}

func (e *recordingExporter) Export(records []Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, append([]Record(nil), records...))
}

func (e *recordingExporter) Records() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Record
	for _, b := range e.batches {
		out = append(out, b...)
	}
	return out
}

func (e *recordingExporter) Batches() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.batches)
}
