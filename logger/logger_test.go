package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConsoleLevel(t *testing.T) {
	quiet, _ := New(Config{})
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel))

	verbose, _ := New(Config{Verbose: true})
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestFileSinkGetsDebugAsJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "fundctl.log")
	log, closeLog := New(Config{File: file})
	log.Debug("dialing node", zap.String("node", "local"))
	closeLog()

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "dialing node", entry["msg"])
	assert.Equal(t, "local", entry["node"])
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 5, orDefault(5, 10))
}
