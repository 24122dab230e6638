package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/forge-sentry/pkg/sentrytarget"
)

// Environment variables read by LoadSentryConfig in addition to the
// sentrytarget ones.
const (
	EnvCategory      = "SENTRY_CATEGORY"
	EnvMinLevel      = "SENTRY_MIN_LEVEL"
	EnvFlushInterval = "SENTRY_FLUSH_INTERVAL"
	EnvEnableLogs    = "SENTRY_ENABLE_LOGS"
)

// ErrConfig is returned when a config file or a logger setting in the
// environment cannot be read or parsed.
var ErrConfig = errors.New("logger: invalid config")

// DefaultSentryConfig returns a SentryConfig with the documented defaults.
func DefaultSentryConfig() SentryConfig {
	return SentryConfig{
		Category:      sentrytarget.DefaultCategory,
		Target:        sentrytarget.DefaultConfig(),
		MinLevel:      slog.LevelWarn,
		FlushInterval: DefaultFlushInterval,
	}
}

// LoadSentryConfig builds a SentryConfig from defaults, the optional YAML
// file at path and the SENTRY_* environment, in that order. Target settings
// live under the "target" key of the file.
func LoadSentryConfig(path string) (SentryConfig, error) {
	cfg := DefaultSentryConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("read %s: %w", path, err))
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("decode %s: %w", path, err))
		}
	}

	target, err := sentrytarget.LoadEnv(cfg.Target)
	if err != nil {
		return cfg, err
	}
	cfg.Target = target
	return applyEnv(cfg, sentrytarget.NewEnv())
}

func applyEnv(cfg SentryConfig, v *viper.Viper) (SentryConfig, error) {
	if v.IsSet(EnvCategory) {
		cfg.Category = v.GetString(EnvCategory)
	}
	if v.IsSet(EnvMinLevel) {
		if err := cfg.MinLevel.UnmarshalText([]byte(strings.TrimSpace(v.GetString(EnvMinLevel)))); err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("%s: %w", EnvMinLevel, err))
		}
	}
	if v.IsSet(EnvFlushInterval) {
		d, err := time.ParseDuration(strings.TrimSpace(v.GetString(EnvFlushInterval)))
		if err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("%s: %w", EnvFlushInterval, err))
		}
		cfg.FlushInterval = d
	}
	if v.IsSet(EnvEnableLogs) {
		cfg.Logs = v.GetBool(EnvEnableLogs)
	}
	return cfg, nil
}
