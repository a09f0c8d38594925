package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtm0/fcnpost/internal/config"
)

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "json"}).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "text"}).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogLevel: "warn", LogFormat: "text"})
	logger.Info("dropped")
	assert.Empty(t, buf.String())
	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.FilesProcessed.WithLabelValues("edges").Inc()
	m.EdgeCells.Set(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesProcessed.WithLabelValues("edges")))

	path := filepath.Join(t.TempDir(), "fcnpost.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fcnpost_files_processed_total{command="edges"} 1`)
	assert.Contains(t, string(data), "fcnpost_edge_cells 42")
}

func TestMetrics_WriteTextfileEmptyPath(t *testing.T) {
	assert.NoError(t, NewMetrics().WriteTextfile(""))
}
