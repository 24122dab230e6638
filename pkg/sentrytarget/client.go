package sentrytarget

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/getsentry/sentry-go"
)

// gitRevision returns the current HEAD revision, or "" if git is unavailable.
var gitRevision = func() string {
	out, err := exec.Command("git", "log", "--pretty=%H", "-n1", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ResolveRelease returns release, or the current git revision for ReleaseAuto.
// The lookup is best-effort: an empty string is returned on failure.
func ResolveRelease(release string) string {
	if release == ReleaseAuto {
		return gitRevision()
	}
	return release
}

// ClientOptions merges cfg.Options with the explicit DSN, release and environment.
func ClientOptions(cfg Config) sentry.ClientOptions {
	opts := cfg.Options
	opts.Dsn = cfg.DSN
	opts.Release = ResolveRelease(cfg.Release)
	if cfg.Environment != "" {
		opts.Environment = cfg.Environment
	}
	return opts
}

// NewHub creates a Sentry client from cfg and binds it to a fresh hub.
// An empty DSN yields a client that accepts and drops events.
func NewHub(cfg Config) (*sentry.Hub, error) {
	client, err := sentry.NewClient(ClientOptions(cfg))
	if err != nil {
		return nil, errors.Join(ErrClientInit, err)
	}
	return sentry.NewHub(client, sentry.NewScope()), nil
}
