package sentrytarget

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables read by LoadConfig and LoadEnv. They match the env
// tags on Config.
const (
	EnvDSN                   = "SENTRY_DSN"
	EnvRelease               = "SENTRY_RELEASE"
	EnvEnvironment           = "SENTRY_ENVIRONMENT"
	EnvCollectUserAttributes = "SENTRY_COLLECT_USER_ATTRIBUTES"
	EnvCollectContext        = "SENTRY_COLLECT_CONTEXT"
	EnvMaskVars              = "SENTRY_MASK_VARS"
	EnvLevels                = "SENTRY_LEVELS"
	EnvCategories            = "SENTRY_CATEGORIES"
	EnvExcept                = "SENTRY_EXCEPT"
	EnvExportInterval        = "SENTRY_EXPORT_INTERVAL"
)

// NewEnv returns a viper instance bound to the process environment.
func NewEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	return v
}

// LoadEnv overlays the SENTRY_* environment variables onto cfg.
// Variables that are not set leave cfg unchanged; a list variable set to ""
// disables the feature. Comma separates list items.
func LoadEnv(cfg Config) (Config, error) {
	return applyEnv(cfg, NewEnv())
}

func applyEnv(cfg Config, v *viper.Viper) (Config, error) {
	for key, dst := range map[string]*string{
		EnvDSN:         &cfg.DSN,
		EnvRelease:     &cfg.Release,
		EnvEnvironment: &cfg.Environment,
	} {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	for key, dst := range map[string]*[]string{
		EnvCollectUserAttributes: &cfg.CollectUserAttributes,
		EnvCollectContext:        &cfg.CollectContext,
		EnvMaskVars:              &cfg.MaskVars,
		EnvLevels:                &cfg.Levels,
		EnvCategories:            &cfg.Categories,
		EnvExcept:                &cfg.Except,
	} {
		if v.IsSet(key) {
			*dst = SplitList(v.GetString(key))
		}
	}

	if v.IsSet(EnvExportInterval) {
		// GetInt reports malformed numbers as 0.
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(EnvExportInterval)))
		if err != nil {
			return cfg, errors.Join(ErrConfig, fmt.Errorf("%s: %w", EnvExportInterval, err))
		}
		cfg.ExportInterval = n
	}

	if _, err := cfg.levelMask(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SplitList splits a comma-separated value, trimming blanks. The result is
// never nil, so an empty value yields an empty, non-nil slice.
func SplitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
