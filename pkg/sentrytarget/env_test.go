package sentrytarget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func envWith(values map[string]string) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("unset variables keep the config", func(t *testing.T) {
		t.Parallel()
		cfg, err := applyEnv(DefaultConfig(), envWith(nil))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("overlays every variable", func(t *testing.T) {
		t.Parallel()
		cfg, err := applyEnv(DefaultConfig(), envWith(map[string]string{
			EnvDSN:                   "https://public@sentry.example.com/1",
			EnvRelease:               "v2",
			EnvEnvironment:           "staging",
			EnvCollectUserAttributes: "id, email",
			EnvCollectContext:        "session,argv",
			EnvMaskVars:              "session.card",
			EnvLevels:                "error,warning",
			EnvCategories:            "app.*",
			EnvExcept:                "app.health",
			EnvExportInterval:        "25",
		}))
		require.NoError(t, err)
		require.Equal(t, "https://public@sentry.example.com/1", cfg.DSN)
		require.Equal(t, "v2", cfg.Release)
		require.Equal(t, "staging", cfg.Environment)
		require.Equal(t, []string{"id", "email"}, cfg.CollectUserAttributes)
		require.Equal(t, []string{"session", "argv"}, cfg.CollectContext)
		require.Equal(t, []string{"session.card"}, cfg.MaskVars)
		require.Equal(t, []string{"error", "warning"}, cfg.Levels)
		require.Equal(t, []string{"app.*"}, cfg.Categories)
		require.Equal(t, []string{"app.health"}, cfg.Except)
		require.Equal(t, 25, cfg.ExportInterval)
	})

	t.Run("empty list disables", func(t *testing.T) {
		t.Parallel()
		cfg, err := applyEnv(DefaultConfig(), envWith(map[string]string{EnvCollectContext: ""}))
		require.NoError(t, err)
		require.NotNil(t, cfg.CollectContext)
		require.Empty(t, cfg.CollectContext)
	})

	t.Run("malformed export interval", func(t *testing.T) {
		t.Parallel()
		_, err := applyEnv(DefaultConfig(), envWith(map[string]string{EnvExportInterval: "lots"}))
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()
		_, err := applyEnv(DefaultConfig(), envWith(map[string]string{EnvLevels: "error,loud"}))
		require.ErrorIs(t, err, ErrUnknownLevel)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sentry.yaml")
		require.NoError(t, os.WriteFile(path, []byte("release: from-file\nenvironment: dev\n"), 0o600))

		cfg, err := loadConfig(path, envWith(map[string]string{EnvRelease: "from-env"}))
		require.NoError(t, err)
		require.Equal(t, "from-env", cfg.Release)
		require.Equal(t, "dev", cfg.Environment)
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadConfig("", envWith(nil))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"a", "b"}, SplitList(" a, ,b "))
	require.Equal(t, []string{}, SplitList(""))
}
