package sentrytarget

import "errors"

// Sentinel errors for target configuration and client setup.
var (
	// ErrClientInit is returned when the Sentry client cannot be created,
	// e.g. because the DSN is malformed.
	ErrClientInit = errors.New("sentrytarget: failed to initialize client")

	// ErrUnknownLevel is returned when a level name cannot be parsed.
	ErrUnknownLevel = errors.New("sentrytarget: unknown level")

	// ErrConfig is returned when a configuration file cannot be read or decoded.
	ErrConfig = errors.New("sentrytarget: invalid config")
)

// ErrFlushTimeout is returned by Close when queued events were not delivered in time.
var ErrFlushTimeout = errors.New("sentrytarget: flush timed out")
