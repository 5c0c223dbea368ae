package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "info", "json"))
	log.Debug("hidden")
	log.Info("dataset loaded", "routes", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "dataset loaded", rec["msg"])
	assert.Equal(t, float64(3), rec["routes"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "debug", "text")).Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "k=v")
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "routemap.log")
	closer := Setup("info", "json", FileOptions{Path: path, MaxSizeMB: 1})
	slog.Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
