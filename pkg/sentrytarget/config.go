package sentrytarget

import (
	"errors"
	"fmt"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ReleaseAuto derives the release from the current git revision.
const ReleaseAuto = "auto"

// DefaultExportInterval is the number of buffered records that triggers an export.
const DefaultExportInterval = 1000

// Config holds the Sentry target configuration.
//
// For the slice fields nil means "use the default" and an empty, non-nil
// slice disables the feature (e.g. `collect_user_attributes: []`).
type Config struct {
	// Options is passed through to sentry.ClientOptions. DSN and Release
	// always take precedence over the same fields here.
	Options sentry.ClientOptions `env:"-" yaml:"-"`

	DSN         string `env:"SENTRY_DSN" yaml:"dsn"`
	Release     string `env:"SENTRY_RELEASE" yaml:"release"` // "auto" = git revision
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production" yaml:"environment"`

	CollectUserAttributes []string `env:"SENTRY_COLLECT_USER_ATTRIBUTES" envSeparator:"," yaml:"collect_user_attributes"`
	CollectContext        []string `env:"SENTRY_COLLECT_CONTEXT" envSeparator:"," yaml:"collect_context"`
	MaskVars              []string `env:"SENTRY_MASK_VARS" envSeparator:"," yaml:"mask_vars"`

	// Levels restricts exported records to these level names; empty = all.
	Levels     []string `env:"SENTRY_LEVELS" envSeparator:"," yaml:"levels"`
	Categories []string `env:"SENTRY_CATEGORIES" envSeparator:"," yaml:"categories"`
	Except     []string `env:"SENTRY_EXCEPT" envSeparator:"," yaml:"except"`

	ExportInterval int `env:"SENTRY_EXPORT_INTERVAL" envDefault:"1000" yaml:"export_interval"`
}

// DefaultConfig returns a Config with the documented defaults filled in.
func DefaultConfig() Config {
	return Config{
		Environment:           "production",
		CollectUserAttributes: append([]string(nil), DefaultUserAttributes...),
		CollectContext:        append([]string(nil), DefaultContextKeys...),
		MaskVars:              append([]string(nil), DefaultMaskVars...),
		ExportInterval:        DefaultExportInterval,
	}
}

// LoadConfig builds a Config from DefaultConfig, the YAML file at path (skipped
// when path is empty) and the SENTRY_* environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path, NewEnv())
}

func loadConfig(path string, env *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("read %s: %w", path, err))
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("decode %s: %w", path, err))
		}
	}
	return applyEnv(cfg, env)
}

// forwarderOptions translates the enrichment settings into forwarder options.
func (c Config) forwarderOptions() []Option {
	var opts []Option
	if c.CollectUserAttributes != nil {
		opts = append(opts, WithUserAttributes(c.CollectUserAttributes...))
	}
	if c.CollectContext != nil {
		opts = append(opts, WithContextKeys(c.CollectContext...))
	}
	if c.MaskVars != nil {
		opts = append(opts, WithMaskVars(c.MaskVars...))
	}
	return opts
}

// targetOptions translates the filtering settings into target options.
func (c Config) targetOptions() ([]TargetOption, error) {
	mask, err := c.levelMask()
	if err != nil {
		return nil, err
	}

	opts := []TargetOption{WithLevels(mask)}
	if len(c.Categories) > 0 {
		opts = append(opts, WithCategories(c.Categories...))
	}
	if len(c.Except) > 0 {
		opts = append(opts, WithExcept(c.Except...))
	}
	if c.ExportInterval > 0 {
		opts = append(opts, WithExportInterval(c.ExportInterval))
	}
	return opts, nil
}

func (c Config) levelMask() (Level, error) {
	var mask Level
	for _, name := range c.Levels {
		l, err := ParseLevel(name)
		if err != nil {
			return 0, err
		}
		mask |= l
	}
	return mask, nil
}
