package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WIB", 7*3600)
	log := New(&buf, loc)

	log.Info("store_ready", "component", "store", "driver", "memory")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "store_ready", entry["msg"])
	assert.Equal(t, "memory", entry["driver"])
	assert.NotContains(t, entry, "time")

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, 7*3600, offset)
}

func TestNewWithLevel_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithLevel(&buf, nil, slog.LevelWarn)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Error("shown")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, time.UTC), "broadcast")

	log.Warn("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "broadcast", entry["component"])
	assert.Equal(t, "warn", entry["level"])
}
