package sentrytarget

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"
)

func TestForwarder_Export(t *testing.T) {
	t.Parallel()

	t.Run("exception then message without bleed", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		f := NewForwarder(hub, WithExtraCallback(func(r Record, extra map[string]any) map[string]any {
			if _, ok := r.Payload.(Error); ok {
				extra["from_error"] = true
			}
			return extra
		}))

		f.Export([]Record{
			{Payload: Error{Err: errors.New("Not found")}, Level: LevelError, Category: "app"},
			{Payload: Text("Debug message"), Level: LevelTrace, Category: "app"},
		})

		events := rec.Events()
		require.Len(t, events, 2)

		first := events[0]
		require.NotEmpty(t, first.Exception)
		require.Equal(t, "Not found", first.Exception[len(first.Exception)-1].Value)
		require.Equal(t, sentry.LevelError, first.Level)
		require.Equal(t, map[string]string{"category": "app"}, first.Tags)
		require.Equal(t, true, first.Extra["from_error"])

		second := events[1]
		require.Empty(t, second.Exception)
		require.Equal(t, "Debug message", second.Message)
		require.Equal(t, sentry.LevelDebug, second.Level)
		require.Equal(t, map[string]string{"category": "app"}, second.Tags)
		require.NotContains(t, second.Extra, "from_error")
	})

	t.Run("error fields become extras", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		f := NewForwarder(hub, WithExtraCallback(func(_ Record, extra map[string]any) map[string]any {
			extra["order"] = "from callback"
			return extra
		}))

		f.Export([]Record{
			{Payload: Error{Err: errors.New("declined"), Fields: map[string]any{"request_id": "r-1", "order": 7}}, Level: LevelError},
			{Payload: Text("next"), Level: LevelInfo},
		})

		events := rec.Events()
		require.Len(t, events, 2)
		require.Equal(t, "r-1", events[0].Extra["request_id"])
		require.Equal(t, "from callback", events[0].Extra["order"])
		require.NotContains(t, events[1].Extra, "request_id")
	})

	t.Run("structured tags do not leak into next record", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		f := NewForwarder(hub)

		f.Export([]Record{
			{Payload: Structured{"msg": "first", "tags": map[string]string{"t": "v"}, "extra": map[string]any{"k": "d"}}, Level: LevelInfo, Category: "a"},
			{Payload: Text("second"), Level: LevelWarning, Category: "b"},
		})

		events := rec.Events()
		require.Len(t, events, 2)
		require.Equal(t, "first", events[0].Message)
		require.Equal(t, map[string]string{"category": "a", "t": "v"}, events[0].Tags)
		require.Equal(t, "d", events[0].Extra["k"])

		require.Equal(t, "second", events[1].Message)
		require.Equal(t, sentry.LevelWarning, events[1].Level)
		require.Equal(t, map[string]string{"category": "b"}, events[1].Tags)
		require.NotContains(t, events[1].Extra, "k")
	})

	t.Run("user and context come from the session", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		f := NewForwarder(hub)
		sess := newUserSession("user1", map[string]any{"username": "User First", "email": "first@user.com"})

		f.Export([]Record{{Payload: Text("with user"), Level: LevelInfo, Category: "app", Session: sess}})

		events := rec.Events()
		require.Len(t, events, 1)
		require.Equal(t, "user1", events[0].User.ID)
		require.Equal(t, "User First", events[0].User.Username)
		require.Equal(t, "first@user.com", events[0].User.Email)
		require.Contains(t, events[0].Extra[ContextKey], "session = ")
	})

	t.Run("anonymous record has no user", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		f := NewForwarder(hub)

		f.Export([]Record{{Payload: Text("anon"), Level: LevelInfo, Category: "app"}})

		events := rec.Events()
		require.Len(t, events, 1)
		require.True(t, events[0].User.IsEmpty())
		require.NotContains(t, events[0].Extra, ContextKey)
	})

	t.Run("unknown level is fatal", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		NewForwarder(hub).Export([]Record{{Payload: Text("odd"), Level: 99, Category: "app"}})

		events := rec.Events()
		require.Len(t, events, 1)
		require.Equal(t, sentry.LevelFatal, events[0].Level)
	})

	t.Run("trace ids become tags", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		NewForwarder(hub).Export([]Record{{
			Payload:  Text("traced"),
			Level:    LevelInfo,
			Category: "app",
			Trace:    TraceInfo{TraceID: "4bf92f3577b34da6a3ce929d0e0e4736", SpanID: "00f067aa0ba902b7"},
		}})

		events := rec.Events()
		require.Len(t, events, 1)
		require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", events[0].Tags["trace_id"])
		require.Equal(t, "00f067aa0ba902b7", events[0].Tags["span_id"])
	})

	t.Run("hub scope is left untouched", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		NewForwarder(hub).Export([]Record{{Payload: Structured{"msg": "m", "tags": map[string]string{"t": "v"}}, Level: LevelInfo, Category: "app"}})
		hub.CaptureMessage("direct")

		events := rec.Events()
		require.Len(t, events, 2)
		require.Empty(t, events[1].Tags)
	})

	t.Run("empty batch sends nothing", func(t *testing.T) {
		t.Parallel()

		hub, rec := newTestHub(t)
		NewForwarder(hub).Export(nil)
		require.Empty(t, rec.Events())
	})
}

func TestExtraFunc(t *testing.T) {
	t.Parallel()

	wrap := ExtraFunc(func(_ Record, extra map[string]any) any {
		if len(extra) == 0 {
			return nil
		}
		return extra
	})

	require.Equal(t, map[string]any{"extra": Dump(nil)}, wrap(Record{}, nil))
	require.Equal(t, map[string]any{"a": 1}, wrap(Record{}, map[string]any{"a": 1}))

	strMap := ExtraFunc(func(Record, map[string]any) any { return map[string]string{"s": "v"} })
	require.Equal(t, map[string]any{"s": "v"}, strMap(Record{}, nil))
}

func TestDump(t *testing.T) {
	t.Parallel()

	require.Contains(t, Dump("x"), `"x"`)
	require.Equal(t, Dump(map[string]any{"b": 1, "a": 2}), Dump(map[string]any{"a": 2, "b": 1}))
	require.NotContains(t, Dump(&struct{ A int }{A: 1}), "0x")
}
