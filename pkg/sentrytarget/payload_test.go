package sentrytarget

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPayload(t *testing.T) {
	t.Parallel()

	t.Run("bare message is text", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Text("hello"), buildPayload("hello", nil, nil))
	})

	t.Run("fields are not modified", func(t *testing.T) {
		t.Parallel()
		fields := map[string]any{"used": 10, "msg": "user value"}

		p := buildPayload("quota", fields, nil)

		require.Equal(t, map[string]any{"used": 10, "msg": "user value"}, fields)
		require.Equal(t, Structured{"used": 10, "msg": "quota", KeyMsgAttr: "user value"}, p)
	})

	t.Run("error keeps a copy of the fields", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("timeout")
		fields := map[string]any{"request_id": "r-1"}

		p, ok := buildPayload("fetch failed", fields, cause).(Error)
		require.True(t, ok)
		fields["request_id"] = "changed"

		require.Equal(t, "fetch failed: timeout", p.Err.Error())
		require.Equal(t, map[string]any{"request_id": "r-1"}, p.Fields)
	})

	t.Run("error without fields", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("timeout")

		p, ok := buildPayload("timeout", nil, cause).(Error)
		require.True(t, ok)
		require.Same(t, cause, p.Err)
		require.Nil(t, p.Fields)
	})
}
