package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/propdesk/propdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	config.Load()
	return tmp
}

func decodeLines(t *testing.T, data string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestConfigFromGlobal(t *testing.T) {
	setupTest(t)
	t.Setenv("PROPDESK_LOGGING_ENABLED", "true")
	t.Setenv("PROPDESK_LOGGING_LEVEL", "warn")
	t.Setenv("PROPDESK_LOGGING_MAX_FILES", "5")
	config.Load()

	cfg := FromGlobalConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.Equal(t, os.Getpid(), cfg.PID)
}

func TestLogLevelMapping(t *testing.T) {
	setupTest(t)

	t.Setenv("PROPDESK_DEBUG", "true")
	t.Setenv("PROPDESK_QUIET", "true")
	config.Load()
	assert.Equal(t, "debug", FromGlobalConfig().Level, "debug wins over quiet")

	t.Setenv("PROPDESK_DEBUG", "")
	config.Load()
	assert.Equal(t, "error", FromGlobalConfig().Level)
}

func TestNewWritesRedactedJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "debug", Command: "list", PID: 42})

	l.Debug("request", "method", "GET", "apiToken", "s3cr3t", "Authorization", "Bearer abc")
	entries := decodeLines(t, buf.String())

	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0]["msg"])
	assert.Equal(t, "GET", entries[0]["method"])
	assert.Equal(t, redacted, entries[0]["apiToken"])
	assert.Equal(t, redacted, entries[0]["Authorization"])
	assert.EqualValues(t, 42, entries[0]["pid"])
}

func TestWithAddsFieldsWithoutMutatingParent(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, Config{Level: "info"})
	child := base.With("component", "listing")

	child.Info("page loaded", "page", 2)
	base.Info("plain")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 2)
	assert.Equal(t, "listing", entries[0]["component"])
	assert.EqualValues(t, 2, entries[0]["page"])
	_, has := entries[1]["component"]
	assert.False(t, has)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "warn"})

	l.Info("hidden")
	l.Warn("shown")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestInitDisabledReturnsNoop(t *testing.T) {
	l, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, noopLogger{}, l)
	assert.NoError(t, l.Shutdown())
}

func TestInitGlobalWritesFileUnderStateDir(t *testing.T) {
	tmp := setupTest(t)
	t.Setenv("PROPDESK_LOGGING_ENABLED", "true")
	config.Load()

	require.NoError(t, InitGlobal())
	defer ShutdownGlobal()

	path := CurrentLogFile()
	require.NotEmpty(t, path)
	assert.Equal(t, filepath.Join(tmp, "propdesk", "logs"), filepath.Dir(path))

	GetGlobal().Info("hello", "password", "hunter2")
	require.NoError(t, ShutdownGlobal())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.NotContains(t, string(data), "hunter2")
	assert.Empty(t, CurrentLogFile())
}

func TestRotateKeepsNewestFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s%d.log", logFilePrefix, i))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), []byte("x"), 0600))

	require.NoError(t, rotate(dir, 3))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{logFilePrefix + "3.log", logFilePrefix + "4.log", "other.log"}, names)
}

func TestRedactorSegments(t *testing.T) {
	r := newRedactor()
	assert.True(t, r.isSensitive("api_token"))
	assert.True(t, r.isSensitive("apiToken"))
	assert.True(t, r.isSensitive("X-Auth"))
	assert.False(t, r.isSensitive("monkey"))
	assert.False(t, r.isSensitive("page"))
}
