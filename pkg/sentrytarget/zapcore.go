package sentrytarget

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dmitrymomot/forge-sentry/pkg/session"
)

// SessionFieldKey is the zap field key carrying a *session.Session.
const SessionFieldKey = "session"

// fatalFlushTimeout bounds delivery of panic and fatal entries before zap exits.
const fatalFlushTimeout = 2 * time.Second

// SessionField attaches the active session to a zap entry.
func SessionField(s *session.Session) zap.Field {
	return zap.Any(SessionFieldKey, s)
}

type zapCore struct {
	zapcore.LevelEnabler
	target   *Target
	category string
	fields   []zapcore.Field
}

// NewZapCore returns a zapcore.Core collecting entries into target.
// The logger name becomes the category, falling back to DefaultCategory.
// Entries above Error level are flushed to Sentry before Write returns.
func NewZapCore(target *Target, enab zapcore.LevelEnabler) zapcore.Core {
	return &zapCore{LevelEnabler: enab, target: target, category: DefaultCategory}
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(c.fields[:len(c.fields):len(c.fields)], fields...)
	return &clone
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	var err error
	for _, f := range append(c.fields[:len(c.fields):len(c.fields)], fields...) {
		if f.Type == zapcore.ErrorType && err == nil {
			if e, ok := f.Interface.(error); ok {
				err = e
				continue
			}
		}
		f.AddTo(enc)
	}

	rec := Record{
		Time:     ent.Time,
		Level:    levelFromZap(ent.Level),
		Category: c.category,
	}
	if ent.LoggerName != "" {
		rec.Category = ent.LoggerName
	}
	if v, ok := enc.Fields[CategoryKey].(string); ok {
		rec.Category = v
		delete(enc.Fields, CategoryKey)
	}
	if s, ok := enc.Fields[SessionFieldKey].(*session.Session); ok {
		rec.Session = s.Clone()
		delete(enc.Fields, SessionFieldKey)
	}
	rec.Payload = buildPayload(ent.Message, enc.Fields, err)

	c.target.Collect([]Record{rec}, false)
	if ent.Level > zapcore.ErrorLevel {
		return c.target.Close(fatalFlushTimeout)
	}
	return nil
}

func (c *zapCore) Sync() error {
	c.target.Flush()
	return nil
}

func levelFromZap(l zapcore.Level) Level {
	switch {
	case l >= zapcore.ErrorLevel:
		return LevelError
	case l >= zapcore.WarnLevel:
		return LevelWarning
	case l >= zapcore.InfoLevel:
		return LevelInfo
	default:
		return LevelTrace
	}
}
