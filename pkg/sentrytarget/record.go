package sentrytarget

import (
	"time"

	"github.com/dmitrymomot/forge-sentry/pkg/session"
)

// Reserved keys of a Structured payload.
const (
	KeyTags  = "tags"
	KeyExtra = "extra"
	KeyMsg   = "msg"
)

// Payload is the body of a log record: Text, Error or Structured.
type Payload interface {
	payload()
}

// Text is a plain message.
type Text string

// Error carries an error value; it is reported as an exception.
// Fields are the other attributes of the log call and become event extras.
type Error struct {
	Err    error
	Fields map[string]any
}

// Structured is a message with reserved keys "tags", "extra" and "msg".
// Any other keys are part of the message body.
type Structured map[string]any

func (Text) payload()       {}
func (Error) payload()      {}
func (Structured) payload() {}

// TraceInfo identifies the span a record was logged in.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// IsValid reports whether the trace identifiers are set.
func (t TraceInfo) IsValid() bool {
	return t.TraceID != "" && t.SpanID != ""
}

// Record is a single log entry handed to the forwarder.
// It is treated as immutable once collected.
//
// Session must be a copy taken when the record is built (see
// session.Session.Clone), never the live session of a request: records are
// read later, on the goroutine that flushes the target.
type Record struct {
	Time     time.Time
	Payload  Payload
	Session  *session.Session // nil = no active session
	Category string
	Trace    TraceInfo
	Level    Level
}
