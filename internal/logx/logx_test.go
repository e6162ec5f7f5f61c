package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_DefaultLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("", &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", zap.String("project_id", "my-app-1"))
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"project_id": "my-app-1"`)
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("DEBUG", &buf)
	require.NoError(t, err)

	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" error ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
