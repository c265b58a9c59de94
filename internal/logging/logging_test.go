package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/delaneyj/vbind/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanout(t *testing.T) {
	require.NoError(t, logging.SetLevel("info"))
	t.Cleanup(func() { _ = logging.SetLevel("info") })

	var term bytes.Buffer
	path := filepath.Join(t.TempDir(), "vbind.log")
	logger, closeFn, err := logging.New(logging.Options{Terminal: &term, JSONPath: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("write", "path", "name")
	require.NoError(t, closeFn())

	assert.NotContains(t, term.String(), "hidden")
	assert.Contains(t, term.String(), "msg=write path=name")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(raw), &rec))
	assert.Equal(t, "write", rec["msg"])
	assert.Equal(t, "name", rec["path"])
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { _ = logging.SetLevel("info") })

	require.NoError(t, logging.SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, logging.Level())
	require.NoError(t, logging.SetLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, logging.Level())
	assert.Error(t, logging.SetLevel("loud"))
}

func TestNoHandlers(t *testing.T) {
	logger, closeFn, err := logging.New(logging.Options{})
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	assert.NoError(t, closeFn())
}
