package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestFanout(t *testing.T) {
	t.Parallel()

	t.Run("delivers past failing handler", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		errFail := errors.New("fail")
		f := fanout{
			failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil), err: errFail},
			slog.NewJSONHandler(&buf, nil),
		}

		err := slog.New(f).Handler().Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "m", 0))
		require.ErrorIs(t, err, errFail)
		require.Contains(t, buf.String(), `"msg":"m"`)
	})

	t.Run("enabled if any handler is", func(t *testing.T) {
		t.Parallel()
		f := fanout{
			slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
			slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
		}
		require.True(t, f.Enabled(context.Background(), slog.LevelInfo))
		require.False(t, f.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("skips handlers below their level", func(t *testing.T) {
		t.Parallel()
		var strict, loose bytes.Buffer
		log := slog.New(fanout{
			slog.NewJSONHandler(&strict, &slog.HandlerOptions{Level: slog.LevelError}),
			slog.NewJSONHandler(&loose, nil),
		}).WithGroup("g").With(slog.Int("a", 1))

		log.Info("only loose")
		require.Empty(t, strict.String())
		require.Contains(t, loose.String(), `"g":{"a":1}`)
	})
}

func TestLevelsFrom(t *testing.T) {
	t.Parallel()
	require.Equal(t, []slog.Level{slog.LevelWarn, slog.LevelError}, levelsFrom(slog.LevelWarn))
	require.Equal(t, []slog.Level{slog.LevelError}, levelsFrom(slog.LevelError))
	require.Len(t, levelsFrom(slog.LevelDebug), 4)
}
