package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/therapy-chat/internal/observability"
)

func TestLoggerFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	observability.Configure(&buf, slog.LevelInfo)
	t.Cleanup(func() { observability.Configure(os.Stdout, slog.LevelInfo) })

	ctx := observability.WithRequestID(context.Background(), "req-1")
	observability.LoggerFromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	observability.Configure(&buf, slog.LevelWarn)
	t.Cleanup(func() { observability.Configure(os.Stdout, slog.LevelInfo) })

	observability.Logger().Info("dropped")
	assert.Zero(t, buf.Len())

	observability.Logger().Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
