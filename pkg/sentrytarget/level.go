package sentrytarget

import (
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
)

// Level is the host logger's severity scale. Values are bit flags so a set
// of levels can be expressed as a mask (see WithLevels).
type Level int

// Host log levels.
const (
	LevelError        Level = 0x01
	LevelWarning      Level = 0x02
	LevelInfo         Level = 0x04
	LevelTrace        Level = 0x08
	LevelProfile      Level = 0x40
	LevelProfileBegin Level = 0x50
	LevelProfileEnd   Level = 0x60
)

var severities = map[Level]sentry.Level{
	LevelError:        sentry.LevelError,
	LevelWarning:      sentry.LevelWarning,
	LevelInfo:         sentry.LevelInfo,
	LevelTrace:        sentry.LevelDebug,
	LevelProfileBegin: sentry.LevelDebug,
	LevelProfileEnd:   sentry.LevelDebug,
	LevelProfile:      sentry.LevelDebug,
}

var levelNames = map[string]Level{
	"error":         LevelError,
	"warning":       LevelWarning,
	"info":          LevelInfo,
	"trace":         LevelTrace,
	"profile":       LevelProfile,
	"profile-begin": LevelProfileBegin,
	"profile-end":   LevelProfileEnd,
}

// ConvertLevel maps a host level to a Sentry severity.
// Levels outside the known set are reported as fatal.
func ConvertLevel(level Level) sentry.Level {
	if sev, ok := severities[level]; ok {
		return sev
	}
	return sentry.LevelFatal
}

// ParseLevel parses a level name such as "warning" or "profile-begin".
func ParseLevel(name string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// String returns the level name.
func (l Level) String() string {
	for name, v := range levelNames {
		if v == l {
			return name
		}
	}
	return fmt.Sprintf("level(%d)", int(l))
}
